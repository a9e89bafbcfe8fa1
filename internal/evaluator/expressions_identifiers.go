package evaluator

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/config"
)

// evalIdentifier resolves a name: scope bindings shadow builtins, and
// "builtins" is always the builtin set.
func (e *Evaluator) evalIdentifier(node *ast.Identifier, scope *Scope) (Object, error) {
	if v, ok := scope.Lookup(node.Value); ok {
		return v, nil
	}
	if node.Value == config.BuiltinsName {
		return e.builtinsAttrSet(), nil
	}
	if b, ok := e.builtins[node.Value]; ok {
		return &BuiltinRef{Builtin: b}, nil
	}
	return nil, unsupported("undefined variable '%s'", node.Value)
}
