package evaluator

import (
	"errors"

	"github.com/funvibe/nixeval/internal/ast"
)

const functorAttr = "__functor"

func (e *Evaluator) evalApplication(node *ast.Application, scope *Scope) (Object, error) {
	fn, err := e.evalForced(node.Function, scope)
	if err != nil {
		return nil, err
	}
	arg, err := e.delay(node.Argument, scope)
	if err != nil {
		return nil, err
	}
	return e.Apply(fn, arg)
}

// delay suspends node unless evaluating it is trivial.
func (e *Evaluator) delay(node ast.Expression, scope *Scope) (Object, error) {
	switch node.(type) {
	case *ast.Identifier, *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral,
		*ast.BooleanLiteral, *ast.NullLiteral, *ast.Lambda:
		return e.Eval(node, scope)
	}
	return NewThunk(node, scope, e.loader.CurrentFile()), nil
}

// Apply calls fn with one argument. Multi-argument calls are nested
// applications; builtins collect arguments until they have enough.
func (e *Evaluator) Apply(fn Object, arg Object) (Object, error) {
	fn, err := e.Force(fn)
	if err != nil {
		return nil, err
	}
	switch f := fn.(type) {
	case *Function:
		if e.callDepth >= e.MaxDepth {
			return nil, unsupported("stack overflow: maximum call depth %d exceeded", e.MaxDepth)
		}
		e.callDepth++
		defer func() { e.callDepth-- }()
		inner := f.Scope.Extend(f.Param, arg)
		e.loader.PushFile(f.File)
		defer e.loader.PopFile()
		return e.Eval(f.Body, inner)
	case *BuiltinRef:
		return e.callBuiltin(f.Builtin, []Object{arg})
	case *PartialApplication:
		args := make([]Object, len(f.Args), len(f.Args)+1)
		copy(args, f.Args)
		return e.callBuiltin(f.Builtin, append(args, arg))
	case *AttrSet:
		if functor, ok := f.Get(functorAttr); ok {
			g, err := e.Apply(functor, f)
			if err != nil {
				return nil, err
			}
			return e.Apply(g, arg)
		}
	}
	return nil, unsupported("attempt to call something which is not a function but %s", TypeName(fn))
}

// ApplyForced applies fn to each argument in turn and forces the result.
func (e *Evaluator) ApplyForced(fn Object, args ...Object) (Object, error) {
	var err error
	for _, arg := range args {
		if fn, err = e.Apply(fn, arg); err != nil {
			return nil, err
		}
	}
	return e.Force(fn)
}

func (e *Evaluator) callBuiltin(b Builtin, args []Object) (Object, error) {
	if bf, ok := b.(*BuiltinFunction); ok {
		if len(args) < bf.Arity {
			return &PartialApplication{Builtin: b, Args: args}, nil
		}
		return bf.Call(args)
	}

	forced := make([]Object, len(args))
	for i, a := range args {
		v, err := e.Force(a)
		if err != nil {
			return nil, err
		}
		forced[i] = v
	}
	v, err := b.Call(forced)
	var arity *ArityError
	if errors.As(err, &arity) && arity.Got < arity.Expected {
		return &PartialApplication{Builtin: b, Args: forced}, nil
	}
	return v, err
}

func isCallable(obj Object) bool {
	switch obj := obj.(type) {
	case *Function, *BuiltinRef, *PartialApplication:
		return true
	case *AttrSet:
		return obj.Has(functorAttr)
	}
	return false
}
