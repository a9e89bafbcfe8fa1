package parser

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP006, p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for {
		// Juxtaposition is application; it binds tighter than every binary
		// operator and looser than attribute selection.
		if precedence < APPLY && argumentStart[p.peekToken.Type] {
			p.nextToken()
			tok := p.curToken
			arg := p.parseExpression(APPLY)
			if arg == nil {
				return nil
			}
			leftExp = &ast.Application{Token: tok, Function: leftExp, Argument: arg}
			continue
		}

		if precedence >= p.peekPrecedence() {
			break
		}

		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		nextExp := infix(leftExp)
		if nextExp == nil {
			return nil
		}
		leftExp = nextExp
	}

	return leftExp
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	prec := NEGATE
	if p.curTokenIs(token.BANG) {
		prec = NOT
	}
	p.nextToken()
	expression.Right = p.parseExpression(prec)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	if rightAssoc[p.curToken.Type] {
		precedence--
	}
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	if isComparison(expression.Operator) {
		if inner, ok := expression.Left.(*ast.InfixExpression); ok && samePrecedence(inner.Operator, expression.Operator) {
			p.addError(diagnostics.ErrP001, expression.Token, "operator '"+expression.Operator+"' is not associative")
			return nil
		}
	}
	return expression
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func samePrecedence(a, b string) bool {
	return precedences[token.TokenType(a)] == precedences[token.TokenType(b)]
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.Paren{Token: tok, Inner: exp}
}
