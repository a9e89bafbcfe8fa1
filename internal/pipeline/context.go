package pipeline

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/token"
)

// TokenSource is the buffered token stream produced by the lexer stage.
type TokenSource interface {
	Next() token.Token
	Peek(n int) token.Token
}

// PipelineContext carries source text through the lexing and parsing stages.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenSource
	AstRoot     ast.Expression
	Errors      []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}
