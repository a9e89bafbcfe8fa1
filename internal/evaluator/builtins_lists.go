package evaluator

import (
	"sort"
)

// ListBuiltins returns the list primitives.
func ListBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"length":      {Fname: "length", Arity: 1, Fn: builtinLength},
		"head":        {Fname: "head", Arity: 1, Fn: builtinHead},
		"tail":        {Fname: "tail", Arity: 1, Fn: builtinTail},
		"elemAt":      {Fname: "elemAt", Arity: 2, Fn: builtinElemAt},
		"elem":        {Fname: "elem", Arity: 2, Fn: builtinElem},
		"concatLists": {Fname: "concatLists", Arity: 1, Fn: builtinConcatLists},
		"concatMap":   {Fname: "concatMap", Arity: 2, Fn: builtinConcatMap},
		"foldl'":      {Fname: "foldl'", Arity: 3, Fn: builtinFoldl},
		"genList":     {Fname: "genList", Arity: 2, Fn: builtinGenList},
		"all":         {Fname: "all", Arity: 2, Fn: builtinAll},
		"any":         {Fname: "any", Arity: 2, Fn: builtinAny},
		"filter":      {Fname: "filter", Arity: 2, Fn: builtinFilter},
		"map":         {Fname: "map", Arity: 2, Fn: builtinMap},
		"partition":   {Fname: "partition", Arity: 2, Fn: builtinPartition},
		"groupBy":     {Fname: "groupBy", Arity: 2, Fn: builtinGroupBy},
		"sort":        {Fname: "sort", Arity: 2, Fn: builtinSort},
	}
}

func builtinLength(e *Evaluator, args []Object) (Object, error) {
	l, err := e.forceList(args[0], "length")
	if err != nil {
		return nil, err
	}
	return &Integer{Value: int64(l.Len())}, nil
}

func builtinHead(e *Evaluator, args []Object) (Object, error) {
	l, err := e.forceList(args[0], "head")
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, unsupported("head called on an empty list")
	}
	return l.At(0), nil
}

func builtinTail(e *Evaluator, args []Object) (Object, error) {
	l, err := e.forceList(args[0], "tail")
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, unsupported("tail called on an empty list")
	}
	return l.Slice(1, l.Len()), nil
}

func builtinElemAt(e *Evaluator, args []Object) (Object, error) {
	l, err := e.forceList(args[0], "elemAt")
	if err != nil {
		return nil, err
	}
	i, err := e.forceInt(args[1], "elemAt index")
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= int64(l.Len()) {
		return nil, unsupported("list index %d is out of bounds", i)
	}
	return l.At(int(i)), nil
}

func builtinElem(e *Evaluator, args []Object) (Object, error) {
	l, err := e.forceList(args[1], "elem")
	if err != nil {
		return nil, err
	}
	for _, el := range l.Elements() {
		eq, err := e.objectsEqual(args[0], el)
		if err != nil {
			return nil, err
		}
		if eq {
			return TRUE, nil
		}
	}
	return FALSE, nil
}

func builtinConcatLists(e *Evaluator, args []Object) (Object, error) {
	outer, err := e.forceList(args[0], "concatLists")
	if err != nil {
		return nil, err
	}
	result := emptyList
	for _, el := range outer.Elements() {
		l, err := e.forceList(el, "concatLists element")
		if err != nil {
			return nil, err
		}
		result = result.Concat(l)
	}
	return result, nil
}

func builtinConcatMap(e *Evaluator, args []Object) (Object, error) {
	fn, err := e.forceFunction(args[0], "concatMap")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "concatMap")
	if err != nil {
		return nil, err
	}
	result := emptyList
	for _, el := range l.Elements() {
		v, err := e.ApplyForced(fn, el)
		if err != nil {
			return nil, err
		}
		part, ok := v.(*List)
		if !ok {
			return nil, typeError("concatMap result", "a list", v)
		}
		result = result.Concat(part)
	}
	return result, nil
}

// builtinFoldl folds strictly from the left, forcing the accumulator at
// every step.
func builtinFoldl(e *Evaluator, args []Object) (Object, error) {
	op, err := e.forceFunction(args[0], "foldl'")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[2], "foldl'")
	if err != nil {
		return nil, err
	}
	acc, err := e.Force(args[1])
	if err != nil {
		return nil, err
	}
	for _, el := range l.Elements() {
		if acc, err = e.ApplyForced(op, acc, el); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func builtinGenList(e *Evaluator, args []Object) (Object, error) {
	fn, err := e.forceFunction(args[0], "genList")
	if err != nil {
		return nil, err
	}
	n, err := e.forceInt(args[1], "genList length")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, unsupported("cannot create a list of size %d", n)
	}
	elems := make([]Object, n)
	for i := range elems {
		elems[i] = lazyApply(fn, &Integer{Value: int64(i)})
	}
	return NewList(elems), nil
}

func builtinAll(e *Evaluator, args []Object) (Object, error) {
	return quantify(e, args, "all", false)
}

func builtinAny(e *Evaluator, args []Object) (Object, error) {
	return quantify(e, args, "any", true)
}

// quantify stops at the first element whose predicate equals stopAt.
func quantify(e *Evaluator, args []Object, name string, stopAt bool) (Object, error) {
	pred, err := e.forceFunction(args[0], name)
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], name)
	if err != nil {
		return nil, err
	}
	for _, el := range l.Elements() {
		ok, err := e.callBool(pred, el, name+" predicate")
		if err != nil {
			return nil, err
		}
		if ok == stopAt {
			return nativeBoolToBooleanObject(stopAt), nil
		}
	}
	return nativeBoolToBooleanObject(!stopAt), nil
}

func builtinFilter(e *Evaluator, args []Object) (Object, error) {
	pred, err := e.forceFunction(args[0], "filter")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "filter")
	if err != nil {
		return nil, err
	}
	var kept []Object
	for _, el := range l.Elements() {
		ok, err := e.callBool(pred, el, "filter predicate")
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, el)
		}
	}
	return NewList(kept), nil
}

// builtinMap applies fn lazily: each element is a suspended application.
func builtinMap(e *Evaluator, args []Object) (Object, error) {
	fn, err := e.forceFunction(args[0], "map")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "map")
	if err != nil {
		return nil, err
	}
	elems := l.Elements()
	for i, el := range elems {
		elems[i] = lazyApply(fn, el)
	}
	return NewList(elems), nil
}

func builtinPartition(e *Evaluator, args []Object) (Object, error) {
	pred, err := e.forceFunction(args[0], "partition")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "partition")
	if err != nil {
		return nil, err
	}
	var right, wrong []Object
	for _, el := range l.Elements() {
		ok, err := e.callBool(pred, el, "partition predicate")
		if err != nil {
			return nil, err
		}
		if ok {
			right = append(right, el)
		} else {
			wrong = append(wrong, el)
		}
	}
	return AttrSetFromMap(map[string]Object{
		"right": NewList(right),
		"wrong": NewList(wrong),
	}), nil
}

func builtinGroupBy(e *Evaluator, args []Object) (Object, error) {
	fn, err := e.forceFunction(args[0], "groupBy")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "groupBy")
	if err != nil {
		return nil, err
	}
	groups := map[string][]Object{}
	for _, el := range l.Elements() {
		key, err := e.ApplyForced(fn, el)
		if err != nil {
			return nil, err
		}
		k, ok := key.(*String)
		if !ok {
			return nil, typeError("groupBy key", "a string", key)
		}
		groups[k.Value] = append(groups[k.Value], el)
	}
	values := make(map[string]Object, len(groups))
	for k, members := range groups {
		values[k] = NewList(members)
	}
	return AttrSetFromMap(values), nil
}

// builtinSort is a stable sort with a user comparator that returns true
// when its first argument sorts first.
func builtinSort(e *Evaluator, args []Object) (Object, error) {
	less, err := e.forceFunction(args[0], "sort")
	if err != nil {
		return nil, err
	}
	l, err := e.forceList(args[1], "sort")
	if err != nil {
		return nil, err
	}
	elems := l.Elements()
	var sortErr error
	sort.SliceStable(elems, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		v, err := e.ApplyForced(less, elems[i], elems[j])
		if err != nil {
			sortErr = err
			return false
		}
		b, ok := v.(*Boolean)
		if !ok {
			sortErr = typeError("sort comparator", "a bool", v)
			return false
		}
		return b.Value
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return NewList(elems), nil
}
