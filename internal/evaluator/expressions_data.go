package evaluator

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/token"
)

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, scope *Scope) (Object, error) {
	if len(node.Elements) == 0 {
		return emptyList, nil
	}
	elems := make([]Object, len(node.Elements))
	for i, el := range node.Elements {
		v, err := e.Eval(el, scope)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return NewList(elems), nil
}

func (e *Evaluator) evalAttrSetLiteral(node *ast.AttrSetLiteral, scope *Scope) (Object, error) {
	set, _, err := e.buildBindings(node.Bindings, scope, node.Recursive)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// attrTree is an attribute set under construction. Leaves keep their
// expression until the scope they close over is known.
type attrTree struct {
	keys    []string
	entries map[string]*attrEntry
}

type attrEntry struct {
	tok    token.Token
	expr   ast.Expression // leaf evaluated in the binding scope
	value  Object         // leaf with a ready value (inherit)
	nested *attrTree
	// literal marks a nested tree that came from `a = { ... };` rather than
	// from attribute paths; only such entries accept later a.b bindings.
	literal bool
	from    ast.Expression // inherit (from) source, evaluated in the binding scope
	name    string
}

func newAttrTree() *attrTree {
	return &attrTree{entries: make(map[string]*attrEntry)}
}

func (t *attrTree) add(name string, entry *attrEntry) {
	t.keys = append(t.keys, name)
	t.entries[name] = entry
}

// bindingBuilder collects thunks whose scope is set after every binding of
// a rec set or let block exists, so bindings may refer to each other in
// either order.
type bindingBuilder struct {
	e       *Evaluator
	outer   *Scope
	file    string
	pending []*Thunk
}

// buildBindings evaluates the bindings of an attribute set or let block.
// When recursive, values close over a scope holding every top-level binding;
// otherwise they close over scope. It returns the set and that scope.
func (e *Evaluator) buildBindings(bindings []ast.Binding, scope *Scope, recursive bool) (*AttrSet, *Scope, error) {
	b := &bindingBuilder{e: e, outer: scope, file: e.loader.CurrentFile()}
	tree := newAttrTree()
	for _, binding := range bindings {
		if err := b.addBinding(tree, binding); err != nil {
			return nil, nil, err
		}
	}

	values := make(map[string]Object, len(tree.keys))
	for _, k := range tree.keys {
		values[k] = b.materialize(tree.entries[k])
	}

	inner := scope
	if recursive {
		inner = scope.ExtendAll(values)
	}
	for _, t := range b.pending {
		t.setScope(inner)
	}
	return AttrSetFromMap(values), inner, nil
}

func (b *bindingBuilder) addBinding(tree *attrTree, binding ast.Binding) error {
	switch binding := binding.(type) {
	case *ast.AttrBinding:
		return b.addPath(tree, binding.Path, binding.Value)
	case *ast.Inherit:
		for _, name := range binding.Names {
			if _, exists := tree.entries[name.Static]; exists {
				return b.duplicate(name.Static, name.Token)
			}
			entry := &attrEntry{tok: name.Token, name: name.Static}
			if binding.From != nil {
				entry.from = binding.From
			} else {
				ident := &ast.Identifier{Token: name.Token, Value: name.Static}
				entry.value = NewThunk(ident, b.outer, b.file)
			}
			tree.add(name.Static, entry)
		}
	}
	return nil
}

func (b *bindingBuilder) addPath(tree *attrTree, path []*ast.AttrName, value ast.Expression) error {
	name, ok, err := b.attrKey(path[0])
	if err != nil || !ok {
		return err
	}
	existing, exists := tree.entries[name]

	if len(path) == 1 {
		if !exists {
			tree.add(name, b.leaf(path[0].Token, value))
			return nil
		}
		// a.b = 1; a = { c = 2; }; merges like the reverse order.
		lit, isLit := value.(*ast.AttrSetLiteral)
		if existing.nested != nil && !existing.literal && isLit && flattenable(lit) {
			existing.literal = true
			return b.mergeLiteral(existing.nested, lit)
		}
		return b.duplicate(name, path[0].Token)
	}

	if !exists {
		existing = &attrEntry{tok: path[0].Token, nested: newAttrTree()}
		tree.add(name, existing)
	} else if existing.nested == nil {
		return b.duplicate(name, path[0].Token)
	}
	return b.addPath(existing.nested, path[1:], value)
}

// leaf records value; a plain set literal becomes a nested tree so later
// attribute paths can extend it.
func (b *bindingBuilder) leaf(tok token.Token, value ast.Expression) *attrEntry {
	if lit, ok := value.(*ast.AttrSetLiteral); ok && flattenable(lit) {
		nested := newAttrTree()
		if err := b.mergeLiteral(nested, lit); err == nil {
			return &attrEntry{tok: tok, nested: nested, literal: true}
		}
	}
	return &attrEntry{tok: tok, expr: value}
}

func (b *bindingBuilder) mergeLiteral(tree *attrTree, lit *ast.AttrSetLiteral) error {
	for _, binding := range lit.Bindings {
		if err := b.addBinding(tree, binding); err != nil {
			return err
		}
	}
	return nil
}

// flattenable reports whether a set literal can be merged into its parent:
// it must not be rec and must not depend on the scope it is written in
// beyond its values.
func flattenable(lit *ast.AttrSetLiteral) bool {
	if lit.Recursive {
		return false
	}
	for _, binding := range lit.Bindings {
		ab, ok := binding.(*ast.AttrBinding)
		if !ok {
			return false
		}
		for _, name := range ab.Path {
			if !name.IsStatic() {
				return false
			}
		}
	}
	return true
}

// attrKey evaluates an attribute name. Dynamic names are evaluated in the
// enclosing scope; a null name drops the binding.
func (b *bindingBuilder) attrKey(name *ast.AttrName) (string, bool, error) {
	if name.IsStatic() {
		return name.Static, true, nil
	}
	v, err := b.e.Eval(name.Expr, b.outer)
	if err != nil {
		return "", false, err
	}
	v, err = b.e.Force(v)
	if err != nil {
		return "", false, err
	}
	switch v := v.(type) {
	case *Null:
		return "", false, nil
	case *String:
		return v.Value, true, nil
	}
	return "", false, typeError("dynamic attribute name", "a string", v)
}

func (b *bindingBuilder) duplicate(name string, tok token.Token) error {
	err := unsupported("attribute '%s' already defined", name)
	err.File, err.Line, err.Column = b.file, tok.Line, tok.Column
	return err
}

func (b *bindingBuilder) materialize(entry *attrEntry) Object {
	switch {
	case entry.value != nil:
		return entry.value
	case entry.nested != nil:
		values := make(map[string]Object, len(entry.nested.keys))
		for _, k := range entry.nested.keys {
			values[k] = b.materialize(entry.nested.entries[k])
		}
		return AttrSetFromMap(values)
	case entry.from != nil:
		return b.inheritFrom(entry)
	}
	t := NewThunk(entry.expr, nil, b.file)
	b.pending = append(b.pending, t)
	return t
}

// inheritFrom selects entry.name from the inherit source lazily. Every name
// of one inherit clause shares the source thunk.
func (b *bindingBuilder) inheritFrom(entry *attrEntry) Object {
	var source *Thunk
	for _, t := range b.pending {
		if t.expr == entry.from {
			source = t
			break
		}
	}
	if source == nil {
		source = NewThunk(entry.from, nil, b.file)
		b.pending = append(b.pending, source)
	}
	name, tok := entry.name, entry.tok
	return newNativeThunk(func(e *Evaluator) (Object, error) {
		set, err := e.forceAttrs(source, "inherit")
		if err != nil {
			return nil, err
		}
		v, ok := set.Get(name)
		if !ok {
			err := unsupported("attribute '%s' missing", name)
			err.Line, err.Column = tok.Line, tok.Column
			return nil, err
		}
		return v, nil
	})
}

// forceAttrs forces obj to an attribute set; derivations are viewed as their
// attributes.
func (e *Evaluator) forceAttrs(obj Object, what string) (*AttrSet, error) {
	v, err := e.Force(obj)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *AttrSet:
		return v, nil
	case *Derivation:
		return v.Attrs(), nil
	}
	return nil, typeError(what, "a set", v)
}
