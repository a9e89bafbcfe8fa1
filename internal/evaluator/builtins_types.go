package evaluator

// TypeBuiltins returns the type predicates, typeOf and toString.
func TypeBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"isNull":     {Fname: "isNull", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := o.(*Null); return ok })},
		"isBool":     {Fname: "isBool", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := o.(*Boolean); return ok })},
		"isInt":      {Fname: "isInt", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := o.(*Integer); return ok })},
		"isFloat":    {Fname: "isFloat", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := o.(*Float); return ok })},
		"isString":   {Fname: "isString", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := o.(*String); return ok })},
		"isPath":     {Fname: "isPath", Arity: 1, Fn: typePredicate(isPathValue)},
		"isList":     {Fname: "isList", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := o.(*List); return ok })},
		"isAttrs":    {Fname: "isAttrs", Arity: 1, Fn: typePredicate(func(o Object) bool { _, ok := asAttrs(o); return ok })},
		"isFunction": {Fname: "isFunction", Arity: 1, Fn: typePredicate(isFunctionValue)},
		"typeOf":     {Fname: "typeOf", Arity: 1, Fn: builtinTypeOf},
		"toString":   {Fname: "toString", Arity: 1, Fn: builtinToString},
	}
}

func typePredicate(pred func(Object) bool) func(e *Evaluator, args []Object) (Object, error) {
	return func(e *Evaluator, args []Object) (Object, error) {
		v, err := e.Force(args[0])
		if err != nil {
			return nil, err
		}
		return nativeBoolToBooleanObject(pred(v)), nil
	}
}

func isPathValue(o Object) bool {
	switch o.(type) {
	case *Path, *StorePath:
		return true
	}
	return false
}

// isFunctionValue is true for lambdas and builtins; a set with __functor is
// still a set.
func isFunctionValue(o Object) bool {
	switch o.(type) {
	case *Function, *BuiltinRef, *PartialApplication:
		return true
	}
	return false
}

func builtinTypeOf(e *Evaluator, args []Object) (Object, error) {
	v, err := e.Force(args[0])
	if err != nil {
		return nil, err
	}
	return &String{Value: TypeName(v)}, nil
}

func builtinToString(e *Evaluator, args []Object) (Object, error) {
	s, err := e.coerceToString(args[0], true)
	if err != nil {
		return nil, err
	}
	return &String{Value: s}, nil
}
