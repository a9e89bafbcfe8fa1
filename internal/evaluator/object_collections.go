package evaluator

import (
	"sort"
	"strings"

	"src.elv.sh/pkg/persistent/hash"
	"src.elv.sh/pkg/persistent/hashmap"
	"src.elv.sh/pkg/persistent/vector"

	"github.com/funvibe/nixeval/internal/prettyprinter"
)

// List is an immutable sequence backed by a persistent vector, so tail and
// concatenation share structure with their inputs.
type List struct {
	elems vector.Vector
}

var emptyList = &List{elems: vector.Empty}

func NewList(elements []Object) *List {
	v := vector.Empty
	for _, el := range elements {
		v = v.Conj(el)
	}
	return &List{elems: v}
}

func (l *List) Type() ObjectType { return LIST_OBJ }

func (l *List) Inspect() string {
	if l.Len() == 0 {
		return "[ ]"
	}
	var b strings.Builder
	b.WriteString("[ ")
	for _, el := range l.Elements() {
		b.WriteString(el.Inspect())
		b.WriteByte(' ')
	}
	b.WriteString("]")
	return b.String()
}

func (l *List) Len() int { return l.elems.Len() }

// At returns element i, which may be an unforced thunk.
func (l *List) At(i int) Object {
	v, ok := l.elems.Index(i)
	if !ok {
		return nil
	}
	return v.(Object)
}

func (l *List) Elements() []Object {
	out := make([]Object, 0, l.elems.Len())
	for it := l.elems.Iterator(); it.HasElem(); it.Next() {
		out = append(out, it.Elem().(Object))
	}
	return out
}

// Slice returns elements [from, to).
func (l *List) Slice(from, to int) *List {
	return &List{elems: l.elems.SubVector(from, to)}
}

// Concat returns l ++ other.
func (l *List) Concat(other *List) *List {
	if other.Len() == 0 {
		return l
	}
	if l.Len() == 0 {
		return other
	}
	v := l.elems
	for it := other.elems.Iterator(); it.HasElem(); it.Next() {
		v = v.Conj(it.Elem())
	}
	return &List{elems: v}
}

// AttrSet maps names to values, usually thunks. The persistent map lets
// updates such as // share structure with their operands.
type AttrSet struct {
	m hashmap.Map
}

func stringKeyEqual(a, b any) bool { return a.(string) == b.(string) }
func stringKeyHash(k any) uint32   { return hash.String(k.(string)) }

var emptyAttrs = &AttrSet{m: hashmap.New(stringKeyEqual, stringKeyHash)}

func NewAttrSet() *AttrSet { return emptyAttrs }

func AttrSetFromMap(values map[string]Object) *AttrSet {
	m := emptyAttrs.m
	for k, v := range values {
		m = m.Assoc(k, v)
	}
	return &AttrSet{m: m}
}

func (a *AttrSet) Type() ObjectType { return ATTRSET_OBJ }

func (a *AttrSet) Inspect() string {
	if a.Len() == 0 {
		return "{ }"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		b.WriteString(prettyprinter.FormatAttrName(k))
		b.WriteString(" = ")
		b.WriteString(v.Inspect())
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}

func (a *AttrSet) Len() int { return a.m.Len() }

func (a *AttrSet) Get(name string) (Object, bool) {
	v, ok := a.m.Index(name)
	if !ok {
		return nil, false
	}
	return v.(Object), true
}

func (a *AttrSet) Has(name string) bool {
	_, ok := a.m.Index(name)
	return ok
}

// Set returns a copy of a with name bound to v.
func (a *AttrSet) Set(name string, v Object) *AttrSet {
	return &AttrSet{m: a.m.Assoc(name, v)}
}

// Delete returns a copy of a without name.
func (a *AttrSet) Delete(name string) *AttrSet {
	return &AttrSet{m: a.m.Dissoc(name)}
}

// Update returns a // other: attributes of other win.
func (a *AttrSet) Update(other *AttrSet) *AttrSet {
	if other.Len() == 0 {
		return a
	}
	if a.Len() == 0 {
		return other
	}
	m := a.m
	for it := other.m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		m = m.Assoc(k, v)
	}
	return &AttrSet{m: m}
}

// Keys returns attribute names in sorted order.
func (a *AttrSet) Keys() []string {
	keys := make([]string, 0, a.m.Len())
	for it := a.m.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		keys = append(keys, k.(string))
	}
	sort.Strings(keys)
	return keys
}

// Values returns attribute values ordered by name.
func (a *AttrSet) Values() []Object {
	keys := a.Keys()
	out := make([]Object, len(keys))
	for i, k := range keys {
		out[i], _ = a.Get(k)
	}
	return out
}

// Range calls fn for every attribute in sorted order until fn returns false.
func (a *AttrSet) Range(fn func(name string, v Object) bool) {
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		if !fn(k, v) {
			return
		}
	}
}
