package evaluator

import (
	"sort"

	"src.elv.sh/pkg/persistent/hashmap"
)

// Scope is an immutable name -> value mapping over a persistent hash map.
// Extending a scope shares structure with its parent, so sibling scopes
// derived from the same parent never observe each other.
type Scope struct {
	m hashmap.Map
}

var emptyScope = &Scope{m: hashmap.New(stringKeyEqual, stringKeyHash)}

// EmptyScope returns the scope with no bindings.
func EmptyScope() *Scope { return emptyScope }

func (s *Scope) Len() int { return s.m.Len() }

// Lookup returns the value bound to name.
func (s *Scope) Lookup(name string) (Object, bool) {
	v, ok := s.m.Index(name)
	if !ok {
		return nil, false
	}
	obj, _ := v.(Object)
	return obj, true
}

// Extend returns a new scope with name bound to value; the receiver is unchanged.
func (s *Scope) Extend(name string, value Object) *Scope {
	return &Scope{m: s.m.Assoc(name, value)}
}

// ExtendAll binds every entry of values over s.
func (s *Scope) ExtendAll(values map[string]Object) *Scope {
	m := s.m
	for name, v := range values {
		m = m.Assoc(name, v)
	}
	return &Scope{m: m}
}

// Without returns a new scope with name unbound.
func (s *Scope) Without(name string) *Scope {
	if _, ok := s.m.Index(name); !ok {
		return s
	}
	return &Scope{m: s.m.Dissoc(name)}
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, s.m.Len())
	for it := s.m.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		names = append(names, k.(string))
	}
	sort.Strings(names)
	return names
}
