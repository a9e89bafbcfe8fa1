package evaluator

import (
	"sync"

	"github.com/funvibe/nixeval/internal/ast"
)

type thunkState int

const (
	thunkSuspended thunkState = iota
	thunkEvaluating
	thunkEvaluated
)

// Thunk is a suspended computation: an expression with the scope and file it
// was written in, evaluated at most once on success. Forcing a thunk that is
// already being evaluated is infinite recursion.
type Thunk struct {
	mu    sync.Mutex
	state thunkState
	value Object

	expr  ast.Expression
	scope *Scope
	file  string
	// compute replaces expr for values produced by builtins.
	compute func(e *Evaluator) (Object, error)
}

// NewThunk suspends expr in scope.
func NewThunk(expr ast.Expression, scope *Scope, file string) *Thunk {
	return &Thunk{expr: expr, scope: scope, file: file}
}

func newNativeThunk(compute func(e *Evaluator) (Object, error)) *Thunk {
	return &Thunk{compute: compute}
}

func (t *Thunk) Type() ObjectType { return THUNK_OBJ }

func (t *Thunk) Inspect() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == thunkEvaluated {
		return t.value.Inspect()
	}
	return "<thunk>"
}

// Evaluated reports whether the thunk already holds its value.
func (t *Thunk) Evaluated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == thunkEvaluated
}

// setScope completes a placeholder created before its scope existed.
func (t *Thunk) setScope(s *Scope) {
	t.mu.Lock()
	t.scope = s
	t.mu.Unlock()
}

// force evaluates the thunk to a non-thunk value. The lock is released
// while evaluating; a failure leaves the thunk suspended so it can be retried.
func (t *Thunk) force(e *Evaluator) (Object, error) {
	t.mu.Lock()
	switch t.state {
	case thunkEvaluated:
		v := t.value
		t.mu.Unlock()
		return v, nil
	case thunkEvaluating:
		t.mu.Unlock()
		return nil, newError(KindInfiniteRecursion, "")
	}
	t.state = thunkEvaluating
	expr, scope, file, compute := t.expr, t.scope, t.file, t.compute
	t.mu.Unlock()

	var v Object
	var err error
	if compute != nil {
		v, err = compute(e)
	} else {
		e.loader.PushFile(file)
		v, err = e.Eval(expr, scope)
		e.loader.PopFile()
	}
	if err == nil {
		v, err = e.Force(v)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.state = thunkSuspended
		return nil, err
	}
	t.state = thunkEvaluated
	t.value = v
	t.expr, t.scope, t.compute = nil, nil, nil
	return v, nil
}
