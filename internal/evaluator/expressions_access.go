package evaluator

import (
	"github.com/funvibe/nixeval/internal/ast"
)

func (e *Evaluator) evalSelect(node *ast.Select, scope *Scope) (Object, error) {
	current, err := e.Eval(node.Target, scope)
	if err != nil {
		return nil, err
	}
	for _, name := range node.Path {
		key, err := e.attrName(name, scope)
		if err != nil {
			return nil, err
		}
		v, err := e.Force(current)
		if err != nil {
			return nil, err
		}
		set, isSet := asAttrs(v)
		if !isSet {
			if node.Default != nil {
				return e.Eval(node.Default, scope)
			}
			return nil, unsupported("cannot select attribute '%s' from %s", key, TypeName(v))
		}
		next, ok := set.Get(key)
		if !ok {
			if node.Default != nil {
				return e.Eval(node.Default, scope)
			}
			return nil, unsupported("attribute '%s' missing", key)
		}
		current = next
	}
	return current, nil
}

// evalHasAttr checks a ? a.b.c without forcing the final value.
func (e *Evaluator) evalHasAttr(node *ast.HasAttr, scope *Scope) (Object, error) {
	current, err := e.Eval(node.Target, scope)
	if err != nil {
		return nil, err
	}
	for _, name := range node.Path {
		key, err := e.attrName(name, scope)
		if err != nil {
			return nil, err
		}
		v, err := e.Force(current)
		if err != nil {
			return nil, err
		}
		set, isSet := asAttrs(v)
		if !isSet {
			return FALSE, nil
		}
		next, ok := set.Get(key)
		if !ok {
			return FALSE, nil
		}
		current = next
	}
	return TRUE, nil
}

func (e *Evaluator) attrName(name *ast.AttrName, scope *Scope) (string, error) {
	if name.IsStatic() {
		return name.Static, nil
	}
	v, err := e.Eval(name.Expr, scope)
	if err != nil {
		return "", err
	}
	s, err := forceAs[*String](e, v, "attribute name", "a string")
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

func asAttrs(obj Object) (*AttrSet, bool) {
	switch obj := obj.(type) {
	case *AttrSet:
		return obj, true
	case *Derivation:
		return obj.Attrs(), true
	}
	return nil, false
}
