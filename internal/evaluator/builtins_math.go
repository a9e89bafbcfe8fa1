package evaluator

import "math"

// MathBuiltins returns arithmetic and bitwise primitives.
func MathBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"add":      {Fname: "add", Arity: 2, Fn: arithBuiltin("+")},
		"sub":      {Fname: "sub", Arity: 2, Fn: arithBuiltin("-")},
		"mul":      {Fname: "mul", Arity: 2, Fn: arithBuiltin("*")},
		"div":      {Fname: "div", Arity: 2, Fn: builtinDiv},
		"lessThan": {Fname: "lessThan", Arity: 2, Fn: builtinLessThan},
		"ceil":     {Fname: "ceil", Arity: 1, Fn: roundBuiltin("ceil", math.Ceil)},
		"floor":    {Fname: "floor", Arity: 1, Fn: roundBuiltin("floor", math.Floor)},
		"bitAnd":   {Fname: "bitAnd", Arity: 2, Fn: bitBuiltin("bitAnd", func(a, b int64) int64 { return a & b })},
		"bitOr":    {Fname: "bitOr", Arity: 2, Fn: bitBuiltin("bitOr", func(a, b int64) int64 { return a | b })},
		"bitXor":   {Fname: "bitXor", Arity: 2, Fn: bitBuiltin("bitXor", func(a, b int64) int64 { return a ^ b })},
	}
}

func forceNumbers(e *Evaluator, args []Object) (Object, Object, error) {
	a, err := e.Force(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := e.Force(args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func arithBuiltin(op string) func(*Evaluator, []Object) (Object, error) {
	return func(e *Evaluator, args []Object) (Object, error) {
		a, b, err := forceNumbers(e, args)
		if err != nil {
			return nil, err
		}
		return arithmetic(op, a, b)
	}
}

// builtinDiv truncates when both operands are integers.
func builtinDiv(e *Evaluator, args []Object) (Object, error) {
	a, b, err := forceNumbers(e, args)
	if err != nil {
		return nil, err
	}
	if ai, ok := a.(*Integer); ok {
		if bi, ok := b.(*Integer); ok {
			return intDiv(ai.Value, bi.Value)
		}
	}
	return arithmetic("/", a, b)
}

func builtinLessThan(e *Evaluator, args []Object) (Object, error) {
	a, b, err := forceNumbers(e, args)
	if err != nil {
		return nil, err
	}
	return compareOp("<", a, b)
}

func roundBuiltin(name string, round func(float64) float64) func(*Evaluator, []Object) (Object, error) {
	return func(e *Evaluator, args []Object) (Object, error) {
		v, err := e.Force(args[0])
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case *Integer:
			return v, nil
		case *Float:
			r := round(v.Value)
			if math.IsNaN(r) || r >= math.MaxInt64 || r < math.MinInt64 {
				return nil, unsupported("%s: %s does not fit in an integer", name, formatFloat(v.Value))
			}
			return &Integer{Value: int64(r)}, nil
		}
		return nil, typeError(name, "a number", v)
	}
}

func bitBuiltin(name string, op func(a, b int64) int64) func(*Evaluator, []Object) (Object, error) {
	return func(e *Evaluator, args []Object) (Object, error) {
		a, err := e.forceInt(args[0], name)
		if err != nil {
			return nil, err
		}
		b, err := e.forceInt(args[1], name)
		if err != nil {
			return nil, err
		}
		return &Integer{Value: op(a, b)}, nil
	}
}
