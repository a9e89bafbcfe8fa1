package parser

import (
	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/token"
)

// parseSelectExpression parses `left.a.b` and `left.a.b or default`.
func (p *Parser) parseSelectExpression(left ast.Expression) ast.Expression {
	sel := &ast.Select{Token: p.curToken, Target: left}
	p.nextToken()
	path := p.parseAttrPath()
	if path == nil {
		return nil
	}
	sel.Path = path
	if p.peekTokenIs(token.OR_KW) {
		p.nextToken()
		p.nextToken()
		sel.Default = p.parseExpression(APPLY)
		if sel.Default == nil {
			return nil
		}
	}
	return sel
}

// parseHasAttrExpression parses `left ? a.b`.
func (p *Parser) parseHasAttrExpression(left ast.Expression) ast.Expression {
	has := &ast.HasAttr{Token: p.curToken, Target: left}
	p.nextToken()
	path := p.parseAttrPath()
	if path == nil {
		return nil
	}
	has.Path = path
	return has
}
