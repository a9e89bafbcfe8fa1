package evaluator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	KindParse ErrorKind = iota
	KindAstConversion
	KindNoExpression
	KindUnsupportedExpression
	KindUnsupportedLiteral
	KindInfiniteRecursion
	KindIO
	KindThrown
	KindAborted
)

var kindNames = map[ErrorKind]string{
	KindParse:                 "cannot parse",
	KindAstConversion:         "cannot convert syntax tree",
	KindNoExpression:          "no expression",
	KindUnsupportedExpression: "cannot evaluate",
	KindUnsupportedLiteral:    "cannot read literal",
	KindInfiniteRecursion:     "infinite recursion encountered",
	KindIO:                    "cannot access file",
	KindThrown:                "evaluation aborted with thrown error",
	KindAborted:               "evaluation aborted",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// Error is an evaluation failure. Line and Column locate the innermost node
// being evaluated when the error was first raised.
type Error struct {
	Kind   ErrorKind
	Reason string
	File   string
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	switch {
	case e.Line > 0 && e.File != "":
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, msg)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind. A target with a Reason also
// requires the reasons to be equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

// Sentinels for errors.Is.
var (
	ErrParse                 = &Error{Kind: KindParse}
	ErrAstConversion         = &Error{Kind: KindAstConversion}
	ErrNoExpression          = &Error{Kind: KindNoExpression}
	ErrUnsupportedExpression = &Error{Kind: KindUnsupportedExpression}
	ErrUnsupportedLiteral    = &Error{Kind: KindUnsupportedLiteral}
	ErrInfiniteRecursion     = &Error{Kind: KindInfiniteRecursion}
	ErrIO                    = &Error{Kind: KindIO}
	ErrThrown                = &Error{Kind: KindThrown}
	ErrAborted               = &Error{Kind: KindAborted}
)

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, a...)}
}

func unsupported(format string, a ...interface{}) *Error {
	return newError(KindUnsupportedExpression, format, a...)
}

func ioError(path string, err error) *Error {
	return &Error{Kind: KindIO, Reason: path, Err: err}
}

func typeError(what string, want string, got Object) *Error {
	return unsupported("%s: expected %s, got %s", what, want, TypeName(got))
}

// withLocation fills in the position of the first node that saw err.
func withLocation(err error, file string, line, column int) error {
	var ee *Error
	if errors.As(err, &ee) && ee.Line == 0 && line > 0 {
		ee.File = file
		ee.Line = line
		ee.Column = column
	}
	return err
}

// ArityError reports a builtin called with the wrong number of arguments.
// The dispatcher turns Got < Expected into a partial application.
type ArityError struct {
	Builtin  string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("builtin %s expects %d arguments, got %d", e.Builtin, e.Expected, e.Got)
}
