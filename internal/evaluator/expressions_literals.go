package evaluator

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/store"
	"github.com/funvibe/nixeval/internal/utils"
)

func (e *Evaluator) evalIntegerLiteral(node *ast.IntegerLiteral) (Object, error) {
	v, err := strconv.ParseInt(node.Value, 10, 64)
	if err != nil {
		return nil, &Error{Kind: KindUnsupportedLiteral, Reason: "integer " + node.Value + " out of range", Err: err}
	}
	return &Integer{Value: v}, nil
}

func (e *Evaluator) evalInterpolatedString(node *ast.InterpolatedString, scope *Scope) (Object, error) {
	var b strings.Builder
	for _, part := range node.Parts {
		if lit, ok := part.(*ast.StringLiteral); ok {
			b.WriteString(lit.Value)
			continue
		}
		v, err := e.Eval(part, scope)
		if err != nil {
			return nil, err
		}
		s, err := e.coerceToString(v, false)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	return &String{Value: b.String()}, nil
}

func (e *Evaluator) evalPathLiteral(node *ast.PathLiteral) (Object, error) {
	switch node.Kind {
	case ast.PathSearch:
		return e.lookupSearchPath(node.Value)
	case ast.PathHome:
		home := os.Getenv("HOME")
		if home == "" {
			return nil, unsupported("cannot resolve %s: HOME is not set", node.Value)
		}
		return makePath(utils.ExpandHome(home, node.Value)), nil
	case ast.PathAbsolute:
		return makePath(filepath.Clean(node.Value)), nil
	}
	dir := e.loader.CurrentDir()
	if dir == "" {
		return makePath(node.Value), nil
	}
	return makePath(utils.ResolvePath(dir, node.Value)), nil
}

// lookupSearchPath resolves <name/sub> against the search path entries in
// priority order; the first entry whose target exists wins.
func (e *Evaluator) lookupSearchPath(spec string) (Object, error) {
	for _, entry := range e.searchPaths {
		var candidate string
		switch {
		case spec == entry.Name:
			candidate = entry.Path
		case strings.HasPrefix(spec, entry.Name+"/"):
			candidate = filepath.Join(entry.Path, spec[len(entry.Name)+1:])
		default:
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return makePath(filepath.Clean(candidate)), nil
		}
	}
	return nil, unsupported("file '%s' was not found in the search path", spec)
}

func makePath(p string) Object {
	if store.IsStorePath(p) {
		return &StorePath{Value: p}
	}
	return &Path{Value: p}
}
