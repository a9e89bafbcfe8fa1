package parser

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/token"
)

// parseIdentifier parses a variable reference or, when followed by ':', a lambda.
func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	switch {
	case p.peekTokenIs(token.COLON):
		p.nextToken()
		p.nextToken()
		body := p.parseExpression(LOWEST)
		if body == nil {
			return nil
		}
		return &ast.Lambda{Token: ident.Token, Param: ident, Body: body}
	case p.peekTokenIs(token.AT):
		p.addError(diagnostics.ErrP004, p.peekToken, "pattern-matched lambda parameters are not supported")
		return nil
	}
	return ident
}

func (p *Parser) parseLet() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		bindings, ok := p.parseBindings(token.RBRACE)
		if !ok {
			return nil
		}
		return &ast.LegacyLet{Token: tok, Bindings: bindings}
	}

	bindings, ok := p.parseBindings(token.IN)
	if !ok {
		return nil
	}
	for _, b := range bindings {
		if ab, ok := b.(*ast.AttrBinding); ok && !ab.Path[0].IsStatic() {
			p.addError(diagnostics.ErrP004, ab.Path[0].Token, "dynamic attributes are not allowed in let")
			return nil
		}
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.LetIn{Token: tok, Bindings: bindings, Body: body}
}

func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfElse{Token: p.curToken}
	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil || !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken()
	expression.Consequence = p.parseExpression(LOWEST)
	if expression.Consequence == nil || !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	expression.Alternative = p.parseExpression(LOWEST)
	if expression.Alternative == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseWithExpression() ast.Expression {
	expression := &ast.With{Token: p.curToken}
	p.nextToken()
	expression.Namespace = p.parseExpression(LOWEST)
	if expression.Namespace == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	expression.Body = p.parseExpression(LOWEST)
	if expression.Body == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseAssertExpression() ast.Expression {
	expression := &ast.Assert{Token: p.curToken}
	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	expression.Body = p.parseExpression(LOWEST)
	if expression.Body == nil {
		return nil
	}
	return expression
}
