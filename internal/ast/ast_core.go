package ast

import "github.com/funvibe/nixeval/internal/token"

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expression is a Node that represents an expression. A whole source file is
// a single expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visitor walks expression nodes.
type Visitor interface {
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitInterpolatedString(n *InterpolatedString)
	VisitBooleanLiteral(n *BooleanLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitIdentifier(n *Identifier)
	VisitPathLiteral(n *PathLiteral)
	VisitListLiteral(n *ListLiteral)
	VisitAttrSetLiteral(n *AttrSetLiteral)
	VisitLambda(n *Lambda)
	VisitApplication(n *Application)
	VisitLetIn(n *LetIn)
	VisitLegacyLet(n *LegacyLet)
	VisitWith(n *With)
	VisitIfElse(n *IfElse)
	VisitAssert(n *Assert)
	VisitSelect(n *Select)
	VisitHasAttr(n *HasAttr)
	VisitInfixExpression(n *InfixExpression)
	VisitPrefixExpression(n *PrefixExpression)
	VisitParen(n *Paren)
}

// AttrName is one component of an attribute path: a static name, or an
// expression (${e} or an interpolated string) computed at evaluation time.
type AttrName struct {
	Token  token.Token
	Static string
	Expr   Expression
}

func (a *AttrName) IsStatic() bool { return a.Expr == nil }

// Binding is an entry of an attribute set or let block.
type Binding interface {
	bindingNode()
	GetToken() token.Token
}

// AttrBinding is `a.b.c = value;`.
type AttrBinding struct {
	Token token.Token // first token of the path
	Path  []*AttrName
	Value Expression
}

func (b *AttrBinding) bindingNode()          {}
func (b *AttrBinding) GetToken() token.Token { return b.Token }

// Inherit is `inherit a b;` or `inherit (from) a b;`.
type Inherit struct {
	Token token.Token // the 'inherit' token
	From  Expression  // nil when inheriting from the enclosing scope
	Names []*AttrName
}

func (b *Inherit) bindingNode()          {}
func (b *Inherit) GetToken() token.Token { return b.Token }
