package evaluator

import (
	"fmt"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/prettyprinter"
)

// Function is a user lambda: a parameter, a body and the scope it closes over.
type Function struct {
	Param string
	Body  ast.Expression
	Scope *Scope
	// File is the source file the lambda was written in; relative paths in
	// the body resolve against it.
	File string
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	return fmt.Sprintf("<function %s: %s>", f.Param, prettyprinter.Print(f.Body))
}

// Builtin is a host-provided primitive. Call receives forced arguments and
// may return an *ArityError when it wants more of them.
type Builtin interface {
	Name() string
	Call(args []Object) (Object, error)
}

// BuiltinFunction is a primitive that needs evaluator context (forcing,
// applying functions, importing). The dispatcher collects Arity arguments
// before calling Fn; arguments arrive unforced.
type BuiltinFunction struct {
	Fname string
	Arity int
	Fn    func(e *Evaluator, args []Object) (Object, error)

	eval *Evaluator
}

func (b *BuiltinFunction) Name() string { return b.Fname }

func (b *BuiltinFunction) Call(args []Object) (Object, error) {
	if len(args) != b.Arity {
		return nil, &ArityError{Builtin: b.Fname, Expected: b.Arity, Got: len(args)}
	}
	return b.Fn(b.eval, args)
}

// BuiltinRef is a builtin used as a value.
type BuiltinRef struct {
	Builtin Builtin
}

func (b *BuiltinRef) Type() ObjectType { return BUILTIN_OBJ }
func (b *BuiltinRef) Inspect() string  { return fmt.Sprintf("<builtin %s>", b.Builtin.Name()) }

// PartialApplication is a builtin with a prefix of its arguments bound.
type PartialApplication struct {
	Builtin Builtin
	Args    []Object
}

func (pa *PartialApplication) Type() ObjectType { return PARTIAL_OBJ }
func (pa *PartialApplication) Inspect() string {
	if fb, ok := pa.Builtin.(*BuiltinFunction); ok {
		return fmt.Sprintf("<partial %s %d/%d args>", fb.Fname, len(pa.Args), fb.Arity)
	}
	return fmt.Sprintf("<partial %s %d args>", pa.Builtin.Name(), len(pa.Args))
}
