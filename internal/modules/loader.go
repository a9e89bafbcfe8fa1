package modules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edwingeng/deque"
	"github.com/rs/zerolog"

	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/parser"
)

// CycleError reports a file imported again while it is still being loaded.
type CycleError struct {
	Path string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("import cycle detected loading %s", e.Path)
}

// ErrNoExpression is returned for a file that contains no expression.
var ErrNoExpression = errors.New("file contains no expression")

// EvalFunc evaluates a freshly parsed module and returns its value.
type EvalFunc func(m *Module) (interface{}, error)

// Loader resolves, parses and caches imported files, and tracks which file
// is being evaluated so relative paths resolve against it.
type Loader struct {
	modules    map[string]*Module // by canonical path
	processing map[string]bool
	files      deque.Deque // file context stack, innermost at the back
	log        zerolog.Logger
}

func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		modules:    make(map[string]*Module),
		processing: make(map[string]bool),
		files:      deque.NewDeque(),
		log:        log,
	}
}

// PushFile makes file the current file context.
func (l *Loader) PushFile(file string) { l.files.PushBack(file) }

// PopFile restores the previous file context.
func (l *Loader) PopFile() {
	if !l.files.Empty() {
		l.files.PopBack()
	}
}

// CurrentFile returns the innermost file being evaluated, or "".
func (l *Loader) CurrentFile() string {
	if l.files.Empty() {
		return ""
	}
	return l.files.Back().(string)
}

// CurrentDir returns the directory of the current file, or "" when
// evaluating a bare expression.
func (l *Loader) CurrentDir() string {
	if f := l.CurrentFile(); f != "" {
		return filepath.Dir(f)
	}
	return ""
}

// Depth returns the number of nested file contexts.
func (l *Loader) Depth() int { return l.files.Len() }

// Resolve turns an import argument into a canonical file path. Relative
// paths resolve against the current file's directory; directories resolve
// to their default file.
func (l *Loader) Resolve(path string) (string, error) {
	if !filepath.IsAbs(path) {
		if dir := l.CurrentDir(); dir != "" {
			path = filepath.Join(dir, path)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		abs = filepath.Join(abs, config.DefaultImportFile)
		if _, err := os.Stat(abs); err != nil {
			return "", err
		}
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, nil
}

// Cached returns the module loaded from the canonical path, if any.
func (l *Loader) Cached(path string) (*Module, bool) {
	m, ok := l.modules[path]
	return m, ok
}

// Load resolves path, parses it and evaluates it with eval exactly once;
// later loads of the same file return the cached value.
func (l *Loader) Load(path string, eval EvalFunc) (interface{}, error) {
	abs, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}

	if mod, ok := l.modules[abs]; ok && mod.loaded {
		l.log.Debug().Str("path", abs).Msg("import cache hit")
		return mod.Value, nil
	}

	if l.processing[abs] {
		return nil, &CycleError{Path: abs}
	}
	l.processing[abs] = true
	defer func() { delete(l.processing, abs) }()

	mod, ok := l.modules[abs]
	if !ok {
		mod, err = l.parseFile(abs)
		if err != nil {
			return nil, err
		}
		l.modules[abs] = mod
	}

	l.log.Debug().Str("path", abs).Msg("importing")
	l.PushFile(abs)
	value, err := eval(mod)
	l.PopFile()
	if err != nil {
		return nil, err
	}

	mod.Value = value
	mod.loaded = true
	return value, nil
}

func (l *Loader) parseFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ctx, err := parser.Parse(string(data), path)
	if err != nil {
		return nil, err
	}
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoExpression)
	}
	return newModule(path, string(data), ctx.AstRoot), nil
}
