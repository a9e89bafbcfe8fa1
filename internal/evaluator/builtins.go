package evaluator

import (
	"sort"

	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/store"
)

// RegisterBuiltin adds b to the registry, replacing a builtin of the same
// name. It is reachable both as a bare name and through builtins.
func (e *Evaluator) RegisterBuiltin(b Builtin) {
	if bf, ok := b.(*BuiltinFunction); ok {
		bf.eval = e
	}
	e.builtins[b.Name()] = b
	e.builtinsSet = nil
}

// Builtin returns the registered builtin called name.
func (e *Evaluator) Builtin(name string) (Builtin, bool) {
	b, ok := e.builtins[name]
	return b, ok
}

// BuiltinNames returns every name reachable through builtins, sorted.
func (e *Evaluator) BuiltinNames() []string {
	names := make([]string, 0, len(e.builtins)+len(e.constants)+1)
	for name := range e.builtins {
		names = append(names, name)
	}
	for name := range e.constants {
		names = append(names, name)
	}
	names = append(names, config.BuiltinsName)
	sort.Strings(names)
	return names
}

func (e *Evaluator) registerBuiltins() {
	groups := []map[string]*BuiltinFunction{
		TypeBuiltins(),
		ListBuiltins(),
		AttrBuiltins(),
		StringBuiltins(),
		MathBuiltins(),
		ControlBuiltins(),
		IOBuiltins(),
		JSONBuiltins(),
		HashBuiltins(),
		DerivationBuiltins(),
	}
	for _, group := range groups {
		for _, b := range group {
			bf := *b
			e.RegisterBuiltin(&bf)
		}
	}
	e.constants["nixVersion"] = &String{Value: config.NixVersion}
	e.constants["storeDir"] = &String{Value: store.Dir}
	e.constants["currentSystem"] = newNativeThunk(func(e *Evaluator) (Object, error) {
		return &String{Value: e.System}, nil
	})
}

// builtinsAttrSet returns the builtins set: every registered builtin, the
// constants, and builtins itself.
func (e *Evaluator) builtinsAttrSet() *AttrSet {
	if e.builtinsSet != nil {
		return e.builtinsSet
	}
	values := make(map[string]Object, len(e.builtins)+len(e.constants)+1)
	for name, b := range e.builtins {
		values[name] = &BuiltinRef{Builtin: b}
	}
	for name, v := range e.constants {
		values[name] = v
	}
	values[config.BuiltinsName] = newNativeThunk(func(e *Evaluator) (Object, error) {
		return e.builtinsAttrSet(), nil
	})
	e.builtinsSet = AttrSetFromMap(values)
	return e.builtinsSet
}

func (e *Evaluator) forceString(obj Object, what string) (string, error) {
	s, err := forceAs[*String](e, obj, what, "a string")
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

// forceStringOrPath accepts strings and paths.
func (e *Evaluator) forceStringOrPath(obj Object, what string) (string, error) {
	v, err := e.Force(obj)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case *String:
		return v.Value, nil
	case *Path:
		return v.Value, nil
	case *StorePath:
		return v.Value, nil
	case *AttrSet, *Derivation:
		return e.coerceToString(v, false)
	}
	return "", typeError(what, "a string or path", v)
}

func (e *Evaluator) forceInt(obj Object, what string) (int64, error) {
	i, err := forceAs[*Integer](e, obj, what, "an integer")
	if err != nil {
		return 0, err
	}
	return i.Value, nil
}

func (e *Evaluator) forceBool(obj Object, what string) (bool, error) {
	b, err := forceAs[*Boolean](e, obj, what, "a bool")
	if err != nil {
		return false, err
	}
	return b.Value, nil
}

func (e *Evaluator) forceList(obj Object, what string) (*List, error) {
	return forceAs[*List](e, obj, what, "a list")
}

func (e *Evaluator) forceFunction(obj Object, what string) (Object, error) {
	v, err := e.Force(obj)
	if err != nil {
		return nil, err
	}
	if !isCallable(v) {
		return nil, typeError(what, "a function", v)
	}
	return v, nil
}

// callBool applies pred to arg and requires a boolean result.
func (e *Evaluator) callBool(pred, arg Object, what string) (bool, error) {
	v, err := e.ApplyForced(pred, arg)
	if err != nil {
		return false, err
	}
	b, ok := v.(*Boolean)
	if !ok {
		return false, typeError(what, "a bool", v)
	}
	return b.Value, nil
}

// lazyApply suspends fn applied to args.
func lazyApply(fn Object, args ...Object) *Thunk {
	return newNativeThunk(func(e *Evaluator) (Object, error) {
		return e.ApplyForced(fn, args...)
	})
}
