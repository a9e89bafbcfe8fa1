package evaluator

import "errors"

// ControlBuiltins returns error raising, tracing, strictness and import.
func ControlBuiltins() map[string]*BuiltinFunction {
	return map[string]*BuiltinFunction{
		"abort":   {Fname: "abort", Arity: 1, Fn: builtinAbort},
		"throw":   {Fname: "throw", Arity: 1, Fn: builtinThrow},
		"trace":   {Fname: "trace", Arity: 2, Fn: builtinTrace},
		"seq":     {Fname: "seq", Arity: 2, Fn: builtinSeq},
		"deepSeq": {Fname: "deepSeq", Arity: 2, Fn: builtinDeepSeq},
		"tryEval": {Fname: "tryEval", Arity: 1, Fn: builtinTryEval},
		"import":  {Fname: "import", Arity: 1, Fn: builtinImport},
	}
}

func builtinAbort(e *Evaluator, args []Object) (Object, error) {
	msg, err := e.coerceToString(args[0], true)
	if err != nil {
		return nil, err
	}
	return nil, newError(KindAborted, "%s", msg)
}

func builtinThrow(e *Evaluator, args []Object) (Object, error) {
	msg, err := e.coerceToString(args[0], true)
	if err != nil {
		return nil, err
	}
	return nil, newError(KindThrown, "%s", msg)
}

// builtinTrace logs its first argument and returns the second. The message
// shows as much of the value as can be forced without failing.
func builtinTrace(e *Evaluator, args []Object) (Object, error) {
	v, err := e.Force(args[0])
	if err != nil {
		return nil, err
	}
	if deep, err := e.DeepForce(v); err == nil {
		v = deep
	}
	e.Logger.Warn().Str("file", e.loader.CurrentFile()).Msg("trace: " + Display(v))
	return e.Force(args[1])
}

func builtinSeq(e *Evaluator, args []Object) (Object, error) {
	if _, err := e.Force(args[0]); err != nil {
		return nil, err
	}
	return e.Force(args[1])
}

func builtinDeepSeq(e *Evaluator, args []Object) (Object, error) {
	if _, err := e.DeepForce(args[0]); err != nil {
		return nil, err
	}
	return e.Force(args[1])
}

// builtinTryEval catches every evaluation failure except abort.
func builtinTryEval(e *Evaluator, args []Object) (Object, error) {
	v, err := e.Force(args[0])
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return nil, err
		}
		e.Logger.Debug().Err(err).Msg("tryEval caught error")
		return AttrSetFromMap(map[string]Object{
			"success": FALSE,
			"value":   FALSE,
		}), nil
	}
	return AttrSetFromMap(map[string]Object{
		"success": TRUE,
		"value":   v,
	}), nil
}

func builtinImport(e *Evaluator, args []Object) (Object, error) {
	p, err := e.forceStringOrPath(args[0], "import")
	if err != nil {
		return nil, err
	}
	return e.importFile(p)
}
