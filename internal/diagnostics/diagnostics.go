package diagnostics

import (
	"fmt"

	"github.com/funvibe/nixeval/internal/token"
)

type ErrorCode string

const (
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated string or comment
	ErrL003 ErrorCode = "L003" // malformed number

	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // expected token missing
	ErrP003 ErrorCode = "P003" // no prefix parse function
	ErrP004 ErrorCode = "P004" // unsupported construct
	ErrP005 ErrorCode = "P005" // trailing input
	ErrP006 ErrorCode = "P006" // nesting too deep
)

// DiagnosticError is a positioned lexing or parsing error.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: error[%s]: %s", e.File, e.Token.Line, e.Token.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: error[%s]: %s", e.Token.Line, e.Token.Column, e.Code, e.Message)
}
