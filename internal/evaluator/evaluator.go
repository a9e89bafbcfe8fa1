package evaluator

import (
	"errors"
	"io/fs"
	"regexp"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/modules"
	"github.com/funvibe/nixeval/internal/parser"
)

// Evaluator evaluates expressions lazily. One Evaluator owns its builtin
// registry, import cache and search paths; it is not safe for concurrent use.
type Evaluator struct {
	Logger zerolog.Logger

	// System is reported as builtins.currentSystem and used as the default
	// derivation system.
	System string
	// StoreRoot is prepended to store paths when .drv files are written.
	StoreRoot string
	// WriteStore enables writing .drv files.
	WriteStore bool
	// MaxDepth bounds nested function calls.
	MaxDepth int

	scope       *Scope
	builtins    map[string]Builtin
	constants   map[string]Object
	builtinsSet *AttrSet // rebuilt after registration
	searchPaths []config.SearchPathEntry
	cfg         *config.Config
	loader      *modules.Loader
	regexCache  *lru.Cache[string, *regexp.Regexp] // nil compiles every time

	// callDepth counts the function bodies currently being evaluated.
	callDepth int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for imports, derivation writes and traces.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Evaluator) { e.Logger = log }
}

// WithConfig applies a loaded configuration. Its search paths are consulted
// after any added with WithSearchPath.
func WithConfig(cfg *config.Config) Option {
	return func(e *Evaluator) {
		e.cfg = cfg
		if cfg.System != "" {
			e.System = cfg.System
		}
		if cfg.MaxDepth > 0 {
			e.MaxDepth = cfg.MaxDepth
		}
		e.StoreRoot = cfg.Store.Root
		e.WriteStore = cfg.Store.WriteEnabled()
	}
}

// WithSearchPath adds a <name> lookup entry.
func WithSearchPath(name, path string) Option {
	return func(e *Evaluator) { e.AddSearchPath(name, path) }
}

// WithStore sets the store root and whether derivations are written there.
func WithStore(root string, write bool) Option {
	return func(e *Evaluator) {
		e.StoreRoot = root
		e.WriteStore = write
	}
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		Logger:    zerolog.Nop(),
		System:    config.DefaultSystem,
		MaxDepth:  config.MaxCallDepth,
		scope:     EmptyScope(),
		builtins:  make(map[string]Builtin),
		constants: make(map[string]Object),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg != nil {
		names := make([]string, 0, len(e.cfg.SearchPaths))
		for name := range e.cfg.SearchPaths {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			e.AddSearchPath(name, e.cfg.SearchPaths[name])
		}
	}
	e.loader = modules.NewLoader(e.Logger)
	cache, err := lru.New[string, *regexp.Regexp](config.RegexCacheSize)
	if err != nil {
		e.Logger.Warn().Err(err).Msg("regex cache disabled")
	} else {
		e.regexCache = cache
	}
	e.registerBuiltins()
	return e
}

// AddSearchPath appends a <name> lookup entry; earlier entries win.
func (e *Evaluator) AddSearchPath(name, path string) {
	e.searchPaths = append(e.searchPaths, config.SearchPathEntry{Name: name, Path: path})
}

// SearchPaths returns the lookup entries in priority order.
func (e *Evaluator) SearchPaths() []config.SearchPathEntry {
	out := make([]config.SearchPathEntry, len(e.searchPaths))
	copy(out, e.searchPaths)
	return out
}

// Scope returns the root scope expressions are evaluated in.
func (e *Evaluator) Scope() *Scope { return e.scope }

// SetScope replaces the root scope.
func (e *Evaluator) SetScope(s *Scope) {
	if s == nil {
		s = EmptyScope()
	}
	e.scope = s
}

// ScopeMut returns a mutable view of the root scope.
func (e *Evaluator) ScopeMut() *ScopeBuilder { return &ScopeBuilder{e: e} }

// ScopeBuilder rebinds names in an evaluator's root scope.
type ScopeBuilder struct {
	e *Evaluator
}

func (b *ScopeBuilder) Set(name string, v Object) { b.e.scope = b.e.scope.Extend(name, v) }
func (b *ScopeBuilder) Delete(name string)        { b.e.scope = b.e.scope.Without(name) }
func (b *ScopeBuilder) Get(name string) (Object, bool) {
	return b.e.scope.Lookup(name)
}

// Evaluate parses and evaluates src to weak head normal form.
func (e *Evaluator) Evaluate(src string) (Object, error) {
	ctx, err := parser.Parse(src, "")
	if err != nil {
		return nil, &Error{Kind: KindParse, Err: err}
	}
	if ctx.AstRoot == nil {
		return nil, newError(KindNoExpression, "")
	}
	obj, err := e.Eval(ctx.AstRoot, e.scope)
	if err != nil {
		return nil, err
	}
	return e.Force(obj)
}

// EvaluateFile evaluates a file the way import does, sharing the cache.
func (e *Evaluator) EvaluateFile(path string) (Object, error) {
	return e.importFile(path)
}

// Eval evaluates node in scope. The result may be a thunk.
func (e *Evaluator) Eval(node ast.Expression, scope *Scope) (Object, error) {
	tok := node.GetToken()
	obj, err := e.evalCore(node, scope)
	if err != nil {
		return nil, withLocation(err, e.loader.CurrentFile(), tok.Line, tok.Column)
	}
	return obj, nil
}

func (e *Evaluator) evalCore(node ast.Expression, scope *Scope) (Object, error) {
	switch node := node.(type) {
	case *ast.IntegerLiteral:
		return e.evalIntegerLiteral(node)
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &String{Value: node.Value}, nil
	case *ast.InterpolatedString:
		return e.evalInterpolatedString(node, scope)
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value), nil
	case *ast.NullLiteral:
		return NULL, nil
	case *ast.Identifier:
		return e.evalIdentifier(node, scope)
	case *ast.PathLiteral:
		return e.evalPathLiteral(node)
	case *ast.ListLiteral:
		return e.evalListLiteral(node, scope)
	case *ast.AttrSetLiteral:
		return e.evalAttrSetLiteral(node, scope)
	case *ast.Lambda:
		return &Function{Param: node.Param.Value, Body: node.Body, Scope: scope, File: e.loader.CurrentFile()}, nil
	case *ast.Application:
		return e.evalApplication(node, scope)
	case *ast.LetIn:
		return e.evalLetIn(node, scope)
	case *ast.LegacyLet:
		return e.evalLegacyLet(node, scope)
	case *ast.With:
		return e.evalWith(node, scope)
	case *ast.IfElse:
		return e.evalIfElse(node, scope)
	case *ast.Assert:
		return e.evalAssert(node, scope)
	case *ast.Select:
		return e.evalSelect(node, scope)
	case *ast.HasAttr:
		return e.evalHasAttr(node, scope)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, scope)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, scope)
	case *ast.Paren:
		return e.Eval(node.Inner, scope)
	}
	return nil, newError(KindAstConversion, "unsupported syntax node %T", node)
}

// Force evaluates obj until it is not a thunk.
func (e *Evaluator) Force(obj Object) (Object, error) {
	for {
		t, ok := obj.(*Thunk)
		if !ok {
			return obj, nil
		}
		v, err := t.force(e)
		if err != nil {
			return nil, err
		}
		obj = v
	}
}

// DeepForce forces obj and every list element and attribute value inside
// it. A value that contains itself is left as is at the repeated point.
func (e *Evaluator) DeepForce(obj Object) (Object, error) {
	return e.deepForce(obj, map[Object]bool{})
}

func (e *Evaluator) deepForce(obj Object, active map[Object]bool) (Object, error) {
	v, err := e.Force(obj)
	if err != nil {
		return nil, err
	}
	if active[v] {
		return v, nil
	}
	switch v := v.(type) {
	case *List:
		active[v] = true
		defer delete(active, v)
		elems := v.Elements()
		for i, el := range elems {
			if elems[i], err = e.deepForce(el, active); err != nil {
				return nil, err
			}
		}
		return NewList(elems), nil
	case *AttrSet:
		active[v] = true
		defer delete(active, v)
		out := v
		for _, k := range v.Keys() {
			el, _ := v.Get(k)
			forced, err := e.deepForce(el, active)
			if err != nil {
				return nil, err
			}
			out = out.Set(k, forced)
		}
		return out, nil
	}
	return v, nil
}

// forceAs forces obj and fails with a typed error when it is not a T.
func forceAs[T Object](e *Evaluator, obj Object, what, want string) (T, error) {
	var zero T
	v, err := e.Force(obj)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, typeError(what, want, v)
	}
	return t, nil
}

func (e *Evaluator) importFile(path string) (Object, error) {
	v, err := e.loader.Load(path, func(m *modules.Module) (interface{}, error) {
		obj, err := e.Eval(m.Root, e.scope)
		if err != nil {
			return nil, err
		}
		return e.Force(obj)
	})
	if err != nil {
		return nil, e.importError(path, err)
	}
	return v.(Object), nil
}

func (e *Evaluator) importError(path string, err error) error {
	var ee *Error
	var diag *diagnostics.DiagnosticError
	var cycle *modules.CycleError
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &ee):
		return err
	case errors.As(err, &diag):
		return &Error{Kind: KindParse, Err: err}
	case errors.As(err, &cycle):
		return newError(KindInfiniteRecursion, "import cycle through %s", cycle.Path)
	case errors.Is(err, modules.ErrNoExpression):
		return &Error{Kind: KindNoExpression, Reason: path}
	case errors.As(err, &pathErr):
		return ioError(path, pathErr.Err)
	}
	return ioError(path, err)
}
