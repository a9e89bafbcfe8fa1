package parser

import (
	"fmt"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/pipeline"
	"github.com/funvibe/nixeval/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 1000

const (
	_ int = iota
	LOWEST
	IMPL     // ->
	OR       // ||
	AND      // &&
	EQUALS   // == !=
	COMPARE  // < > <= >=
	UPDATE   // //
	NOT      // !x
	SUM      // + -
	PRODUCT  // * /
	CONCAT   // ++
	HASATTR  // ?
	NEGATE   // -x
	APPLY    // f x
	SELECT   // a.b
)

var precedences = map[token.TokenType]int{
	token.IMPL:     IMPL,
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.UPDATE:   UPDATE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.CONCAT:   CONCAT,
	token.QUESTION: HASATTR,
	token.DOT:      SELECT,
}

var rightAssoc = map[token.TokenType]bool{
	token.IMPL:   true,
	token.UPDATE: true,
	token.CONCAT: true,
}

// argumentStart lists tokens that can begin a function argument.
var argumentStart = map[token.TokenType]bool{
	token.IDENT:      true,
	token.INT:        true,
	token.FLOAT:      true,
	token.STRING:     true,
	token.IND_STRING: true,
	token.URI:        true,
	token.PATH:       true,
	token.HPATH:      true,
	token.SPATH:      true,
	token.LPAREN:     true,
	token.LBRACKET:   true,
	token.LBRACE:     true,
	token.REC:        true,
	token.TRUE:       true,
	token.FALSE:      true,
	token.NULL:       true,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream pipeline.TokenSource
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth int
}

func New(stream pipeline.TokenSource, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.INT:        p.parseIntegerLiteral,
		token.FLOAT:      p.parseFloatLiteral,
		token.STRING:     p.parseStringLiteral,
		token.IND_STRING: p.parseStringLiteral,
		token.URI:        p.parseURI,
		token.PATH:       p.parsePathLiteral,
		token.HPATH:      p.parsePathLiteral,
		token.SPATH:      p.parsePathLiteral,
		token.TRUE:       p.parseBoolean,
		token.FALSE:      p.parseBoolean,
		token.NULL:       p.parseNull,
		token.IDENT:      p.parseIdentifier,
		token.LPAREN:     p.parseGroupedExpression,
		token.LBRACKET:   p.parseListLiteral,
		token.LBRACE:     p.parseAttrSetLiteral,
		token.REC:        p.parseAttrSetLiteral,
		token.LET:        p.parseLet,
		token.IF:         p.parseIfExpression,
		token.WITH:       p.parseWithExpression,
		token.ASSERT:     p.parseAssertExpression,
		token.MINUS:      p.parsePrefixExpression,
		token.PLUS:       p.parsePrefixExpression,
		token.BANG:       p.parsePrefixExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.DOT:      p.parseSelectExpression,
		token.QUESTION: p.parseHasAttrExpression,
	}
	for _, t := range []token.TokenType{
		token.IMPL, token.OR, token.AND, token.EQ, token.NOT_EQ, token.LT, token.GT,
		token.LTE, token.GTE, token.UPDATE, token.PLUS, token.MINUS, token.ASTERISK,
		token.SLASH, token.CONCAT,
	} {
		p.infixParseFns[t] = p.parseInfixExpression
	}

	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses a whole source text as one expression. It returns nil
// when the input holds no expression.
func (p *Parser) ParseProgram() ast.Expression {
	if p.curTokenIs(token.EOF) {
		return nil
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		p.addError(diagnostics.ErrP005, p.peekToken,
			fmt.Sprintf("unexpected %s after end of expression", describe(p.peekToken)))
		return nil
	}
	return expr
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

// peekAt returns the token n positions after curToken (peekAt(1) == peekToken).
func (p *Parser) peekAt(n int) token.Token {
	if n <= 1 {
		return p.peekToken
	}
	return p.stream.Peek(n - 2)
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, msg string) {
	err := diagnostics.NewError(code, tok, msg)
	err.File = p.ctx.FilePath
	p.ctx.Errors = append(p.ctx.Errors, err)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP002, p.peekToken,
		fmt.Sprintf("expected '%s', got %s", t, describe(p.peekToken)))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		msg, _ := tok.Literal.(string)
		p.addError(diagnostics.ErrL001, tok, msg)
		return
	}
	p.addError(diagnostics.ErrP003, tok, fmt.Sprintf("unexpected %s", describe(tok)))
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}
