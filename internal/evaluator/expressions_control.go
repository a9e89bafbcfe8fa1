package evaluator

import (
	"github.com/funvibe/nixeval/internal/ast"
)

func (e *Evaluator) evalLetIn(node *ast.LetIn, scope *Scope) (Object, error) {
	_, inner, err := e.buildBindings(node.Bindings, scope, true)
	if err != nil {
		return nil, err
	}
	return e.Eval(node.Body, inner)
}

// evalLegacyLet evaluates `let { ... }` to the body attribute of the
// recursive set.
func (e *Evaluator) evalLegacyLet(node *ast.LegacyLet, scope *Scope) (Object, error) {
	set, _, err := e.buildBindings(node.Bindings, scope, true)
	if err != nil {
		return nil, err
	}
	body, ok := set.Get("body")
	if !ok {
		return nil, unsupported("let block has no 'body' attribute")
	}
	return body, nil
}

// evalWith binds every attribute of the namespace over scope. Values stay
// unforced until used.
func (e *Evaluator) evalWith(node *ast.With, scope *Scope) (Object, error) {
	ns, err := e.Eval(node.Namespace, scope)
	if err != nil {
		return nil, err
	}
	set, err := e.forceAttrs(ns, "with")
	if err != nil {
		return nil, err
	}
	inner := scope
	set.Range(func(name string, v Object) bool {
		inner = inner.Extend(name, v)
		return true
	})
	return e.Eval(node.Body, inner)
}

func (e *Evaluator) evalIfElse(node *ast.IfElse, scope *Scope) (Object, error) {
	cond, err := e.evalForced(node.Condition, scope)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return e.Eval(node.Consequence, scope)
	}
	return e.Eval(node.Alternative, scope)
}

func (e *Evaluator) evalAssert(node *ast.Assert, scope *Scope) (Object, error) {
	cond, err := e.evalForced(node.Condition, scope)
	if err != nil {
		return nil, err
	}
	if !isTruthy(cond) {
		return nil, unsupported("assertion failed")
	}
	return e.Eval(node.Body, scope)
}

// isTruthy treats only false and null as false.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Null:
		return false
	}
	return true
}

// evalForced evaluates node and forces the result.
func (e *Evaluator) evalForced(node ast.Expression, scope *Scope) (Object, error) {
	v, err := e.Eval(node, scope)
	if err != nil {
		return nil, err
	}
	return e.Force(v)
}
