package evaluator

// AttrBuiltins returns the attribute set primitives. Names and values come
// back in sorted key order.
func AttrBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"attrNames":      {Fname: "attrNames", Arity: 1, Fn: builtinAttrNames},
		"attrValues":     {Fname: "attrValues", Arity: 1, Fn: builtinAttrValues},
		"catAttrs":       {Fname: "catAttrs", Arity: 2, Fn: builtinCatAttrs},
		"hasAttr":        {Fname: "hasAttr", Arity: 2, Fn: builtinHasAttr},
		"getAttr":        {Fname: "getAttr", Arity: 2, Fn: builtinGetAttr},
		"removeAttrs":    {Fname: "removeAttrs", Arity: 2, Fn: builtinRemoveAttrs},
		"intersectAttrs": {Fname: "intersectAttrs", Arity: 2, Fn: builtinIntersectAttrs},
		"listToAttrs":    {Fname: "listToAttrs", Arity: 1, Fn: builtinListToAttrs},
		"mapAttrs":       {Fname: "mapAttrs", Arity: 2, Fn: builtinMapAttrs},
	}
}

func builtinAttrNames(e *Evaluator, args []Object) (Object, error) {
	set, err := e.forceAttrs(args[0], "attrNames")
	if err != nil {
		return nil, err
	}
	keys := set.Keys()
	names := make([]Object, len(keys))
	for i, k := range keys {
		names[i] = &String{Value: k}
	}
	return NewList(names), nil
}

func builtinAttrValues(e *Evaluator, args []Object) (Object, error) {
	set, err := e.forceAttrs(args[0], "attrValues")
	if err != nil {
		return nil, err
	}
	return NewList(set.Values()), nil
}

func builtinCatAttrs(e *Evaluator, args []Object) (Object, error) {
	name, err := e.forceString(args[0], "catAttrs name")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "catAttrs")
	if err != nil {
		return nil, err
	}
	var out []Object
	for _, el := range l.Elements() {
		set, err := e.forceAttrs(el, "catAttrs element")
		if err != nil {
			return nil, err
		}
		if v, ok := set.Get(name); ok {
			out = append(out, v)
		}
	}
	return NewList(out), nil
}

func builtinHasAttr(e *Evaluator, args []Object) (Object, error) {
	name, err := e.forceString(args[0], "hasAttr name")
	if err != nil {
		return nil, err
	}
	set, err := e.forceAttrs(args[1], "hasAttr")
	if err != nil {
		return nil, err
	}
	return nativeBoolToBooleanObject(set.Has(name)), nil
}

func builtinGetAttr(e *Evaluator, args []Object) (Object, error) {
	name, err := e.forceString(args[0], "getAttr name")
	if err != nil {
		return nil, err
	}
	set, err := e.forceAttrs(args[1], "getAttr")
	if err != nil {
		return nil, err
	}
	v, ok := set.Get(name)
	if !ok {
		return nil, unsupported("attribute '%s' missing", name)
	}
	return v, nil
}

func builtinRemoveAttrs(e *Evaluator, args []Object) (Object, error) {
	set, err := e.forceAttrs(args[0], "removeAttrs")
	if err != nil {
		return nil, err
	}
	names, err := e.forceList(args[1], "removeAttrs names")
	if err != nil {
		return nil, err
	}
	for _, n := range names.Elements() {
		name, err := e.forceString(n, "removeAttrs name")
		if err != nil {
			return nil, err
		}
		set = set.Delete(name)
	}
	return set, nil
}

// builtinIntersectAttrs keeps the attributes of the second set whose names
// appear in the first.
func builtinIntersectAttrs(e *Evaluator, args []Object) (Object, error) {
	names, err := e.forceAttrs(args[0], "intersectAttrs")
	if err != nil {
		return nil, err
	}
	set, err := e.forceAttrs(args[1], "intersectAttrs")
	if err != nil {
		return nil, err
	}
	out := NewAttrSet()
	set.Range(func(name string, v Object) bool {
		if names.Has(name) {
			out = out.Set(name, v)
		}
		return true
	})
	return out, nil
}

// builtinListToAttrs builds a set from { name; value; } elements; the first
// occurrence of a name wins.
func builtinListToAttrs(e *Evaluator, args []Object) (Object, error) {
	l, err := e.forceList(args[0], "listToAttrs")
	if err != nil {
		return nil, err
	}
	out := NewAttrSet()
	for _, el := range l.Elements() {
		entry, err := e.forceAttrs(el, "listToAttrs element")
		if err != nil {
			return nil, err
		}
		n, ok := entry.Get("name")
		if !ok {
			return nil, unsupported("listToAttrs element has no 'name' attribute")
		}
		name, err := e.forceString(n, "listToAttrs name")
		if err != nil {
			return nil, err
		}
		v, ok := entry.Get("value")
		if !ok {
			return nil, unsupported("listToAttrs element has no 'value' attribute")
		}
		if !out.Has(name) {
			out = out.Set(name, v)
		}
	}
	return out, nil
}

func builtinMapAttrs(e *Evaluator, args []Object) (Object, error) {
	fn, err := e.forceFunction(args[0], "mapAttrs")
	if err != nil {
		return nil, err
	}
	set, err := e.forceAttrs(args[1], "mapAttrs")
	if err != nil {
		return nil, err
	}
	out := set
	set.Range(func(name string, v Object) bool {
		out = out.Set(name, lazyApply(fn, &String{Value: name}, v))
		return true
	})
	return out, nil
}
