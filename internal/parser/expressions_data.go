package parser

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/token"
)

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACKET) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.RBRACKET)
			return nil
		}
		p.nextToken()
		// Elements are selections, not applications: [ f x ] has two elements.
		prec := APPLY
		if p.curTokenIs(token.MINUS) {
			prec = NEGATE
		}
		elem := p.parseListElement(prec)
		if elem == nil {
			return nil
		}
		list.Elements = append(list.Elements, elem)
	}
	p.nextToken()
	return list
}

func (p *Parser) parseListElement(prec int) ast.Expression {
	if prec == NEGATE {
		tok := p.curToken
		p.nextToken()
		right := p.parseExpression(APPLY)
		if right == nil {
			return nil
		}
		return &ast.PrefixExpression{Token: tok, Operator: "-", Right: right}
	}
	return p.parseExpression(APPLY)
}

// parseAttrSetLiteral parses `{ ... }` and `rec { ... }`.
func (p *Parser) parseAttrSetLiteral() ast.Expression {
	set := &ast.AttrSetLiteral{Token: p.curToken}
	if p.curTokenIs(token.REC) {
		set.Recursive = true
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
	} else if p.looksLikePattern() {
		p.addError(diagnostics.ErrP004, p.curToken, "pattern-matched lambda parameters are not supported")
		return nil
	}

	bindings, ok := p.parseBindings(token.RBRACE)
	if !ok {
		return nil
	}
	set.Bindings = bindings
	return set
}

// looksLikePattern reports whether the '{' at curToken opens a lambda
// parameter pattern such as `{ a, b ? 1, ... }:`.
func (p *Parser) looksLikePattern() bool {
	first := p.peekAt(1)
	second := p.peekAt(2)
	switch first.Type {
	case token.ELLIPSIS:
		return true
	case token.RBRACE:
		return second.Type == token.COLON || second.Type == token.AT
	case token.IDENT:
		switch second.Type {
		case token.COMMA, token.QUESTION:
			return true
		case token.RBRACE:
			third := p.peekAt(3)
			return third.Type == token.COLON || third.Type == token.AT
		}
	}
	return false
}

// parseBindings parses bindings up to and including the closing token.
// curToken is the token before the first binding.
func (p *Parser) parseBindings(closing token.TokenType) ([]ast.Binding, bool) {
	var bindings []ast.Binding
	for !p.peekTokenIs(closing) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(closing)
			return nil, false
		}
		p.nextToken()
		var b ast.Binding
		if p.curTokenIs(token.INHERIT) {
			b = p.parseInherit()
		} else {
			b = p.parseAttrBinding()
		}
		if b == nil {
			return nil, false
		}
		bindings = append(bindings, b)
	}
	p.nextToken()
	return bindings, true
}

func (p *Parser) parseAttrBinding() ast.Binding {
	binding := &ast.AttrBinding{Token: p.curToken}
	path := p.parseAttrPath()
	if path == nil {
		return nil
	}
	binding.Path = path
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	binding.Value = p.parseExpression(LOWEST)
	if binding.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return binding
}

func (p *Parser) parseInherit() ast.Binding {
	inherit := &ast.Inherit{Token: p.curToken}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		inherit.From = p.parseExpression(LOWEST)
		if inherit.From == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
	}
	for !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		name := p.parseAttrName()
		if name == nil {
			return nil
		}
		if !name.IsStatic() {
			p.addError(diagnostics.ErrP004, name.Token, "dynamic attributes are not allowed in inherit")
			return nil
		}
		inherit.Names = append(inherit.Names, name)
	}
	p.nextToken()
	return inherit
}

// parseAttrPath parses a.b."c".${d} starting at curToken.
func (p *Parser) parseAttrPath() []*ast.AttrName {
	first := p.parseAttrName()
	if first == nil {
		return nil
	}
	path := []*ast.AttrName{first}
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		p.nextToken()
		name := p.parseAttrName()
		if name == nil {
			return nil
		}
		path = append(path, name)
	}
	return path
}

func (p *Parser) parseAttrName() *ast.AttrName {
	tok := p.curToken
	switch tok.Type {
	case token.IDENT, token.OR_KW:
		return &ast.AttrName{Token: tok, Static: tok.Lexeme}
	case token.STRING:
		expr := p.parseInterpolatedString()
		if expr == nil {
			return nil
		}
		if sl, ok := expr.(*ast.StringLiteral); ok {
			return &ast.AttrName{Token: tok, Static: sl.Value}
		}
		return &ast.AttrName{Token: tok, Expr: expr}
	case token.INTERP:
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil || !p.expectPeek(token.RBRACE) {
			return nil
		}
		return &ast.AttrName{Token: tok, Expr: expr}
	}
	p.addError(diagnostics.ErrP001, tok, "expected attribute name, got "+describe(tok))
	return nil
}
