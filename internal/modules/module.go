package modules

import (
	"path/filepath"

	"github.com/funvibe/nixeval/internal/ast"
)

// Module is one imported source file. Value holds the evaluated result once
// loading has finished; it is typed interface{} to avoid importing the
// evaluator.
type Module struct {
	Path   string // canonical absolute path
	Dir    string
	Source string
	Root   ast.Expression
	Value  interface{}

	loaded bool
}

func newModule(path, source string, root ast.Expression) *Module {
	return &Module{
		Path:   path,
		Dir:    filepath.Dir(path),
		Source: source,
		Root:   root,
	}
}

// Loaded reports whether the module has been evaluated.
func (m *Module) Loaded() bool { return m.loaded }
