package lexer

import (
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/pipeline"
	"github.com/funvibe/nixeval/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	stream := NewTokenStream(New(ctx.SourceCode))
	for _, tok := range stream.tokens {
		if tok.Type != token.ILLEGAL {
			continue
		}
		msg, _ := tok.Literal.(string)
		code := diagnostics.ErrL001
		if len(msg) > 12 && msg[:12] == "unterminated" {
			code = diagnostics.ErrL002
		}
		err := diagnostics.NewError(code, tok, msg)
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}
	ctx.TokenStream = stream
	return ctx
}
