package parser

import (
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/lexer"
	"github.com/funvibe/nixeval/internal/pipeline"
	"github.com/funvibe/nixeval/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		err := diagnostics.NewError("P000", token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	parser := New(ctx.TokenStream, ctx)
	ctx.AstRoot = parser.ParseProgram()

	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}

// Parse runs the lexer and parser over source and returns the tree or the
// collected diagnostics. A nil tree with no diagnostics means the source held
// no expression.
func Parse(source, file string) (*pipeline.PipelineContext, error) {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = file
	ctx = pipeline.New(&lexer.LexerProcessor{}, &ParserProcessor{}).Run(ctx)
	if len(ctx.Errors) > 0 {
		return ctx, ctx.Errors[0]
	}
	return ctx, nil
}
