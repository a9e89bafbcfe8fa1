package ast

import "github.com/funvibe/nixeval/internal/token"

// IntegerLiteral keeps the digit text; range checking happens at evaluation.
type IntegerLiteral struct {
	Token token.Token
	Value string
}

func (il *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor)      { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

// StringLiteral holds already unescaped text.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// InterpolatedString represents "a ${b} c": literal parts are StringLiterals.
type InterpolatedString struct {
	Token    token.Token
	Parts    []Expression
	Indented bool
}

func (is *InterpolatedString) Accept(v Visitor)      { v.VisitInterpolatedString(is) }
func (is *InterpolatedString) expressionNode()       {}
func (is *InterpolatedString) TokenLiteral() string  { return is.Token.Lexeme }
func (is *InterpolatedString) GetToken() token.Token { return is.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) Accept(v Visitor)      { v.VisitNullLiteral(nl) }
func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

type PathKind int

const (
	PathRelative PathKind = iota // ./a, a/b
	PathAbsolute                 // /a/b
	PathHome                     // ~/a
	PathSearch                   // <nixpkgs/lib>
)

// PathLiteral is a path as written; resolution happens at evaluation time.
type PathLiteral struct {
	Token token.Token
	Kind  PathKind
	Value string
}

func (pl *PathLiteral) Accept(v Visitor)      { v.VisitPathLiteral(pl) }
func (pl *PathLiteral) expressionNode()       {}
func (pl *PathLiteral) TokenLiteral() string  { return pl.Token.Lexeme }
func (pl *PathLiteral) GetToken() token.Token { return pl.Token }

type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) Accept(v Visitor)      { v.VisitListLiteral(ll) }
func (ll *ListLiteral) expressionNode()       {}
func (ll *ListLiteral) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *ListLiteral) GetToken() token.Token { return ll.Token }

// AttrSetLiteral is `{ ... }` or `rec { ... }`.
type AttrSetLiteral struct {
	Token     token.Token // the '{' or 'rec' token
	Recursive bool
	Bindings  []Binding
}

func (al *AttrSetLiteral) Accept(v Visitor)      { v.VisitAttrSetLiteral(al) }
func (al *AttrSetLiteral) expressionNode()       {}
func (al *AttrSetLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *AttrSetLiteral) GetToken() token.Token { return al.Token }

// Lambda is `param: body`.
type Lambda struct {
	Token token.Token // the parameter token
	Param *Identifier
	Body  Expression
}

func (l *Lambda) Accept(v Visitor)      { v.VisitLambda(l) }
func (l *Lambda) expressionNode()       {}
func (l *Lambda) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Lambda) GetToken() token.Token { return l.Token }

// Application is juxtaposition `f x`; multi-argument calls nest to the left.
type Application struct {
	Token    token.Token
	Function Expression
	Argument Expression
}

func (a *Application) Accept(v Visitor)      { v.VisitApplication(a) }
func (a *Application) expressionNode()       {}
func (a *Application) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Application) GetToken() token.Token { return a.Token }

type LetIn struct {
	Token    token.Token // the 'let' token
	Bindings []Binding
	Body     Expression
}

func (le *LetIn) Accept(v Visitor)      { v.VisitLetIn(le) }
func (le *LetIn) expressionNode()       {}
func (le *LetIn) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LetIn) GetToken() token.Token { return le.Token }

// LegacyLet is `let { ...; body = e; }`, evaluating to the body attribute of
// the recursive set.
type LegacyLet struct {
	Token    token.Token
	Bindings []Binding
}

func (ll *LegacyLet) Accept(v Visitor)      { v.VisitLegacyLet(ll) }
func (ll *LegacyLet) expressionNode()       {}
func (ll *LegacyLet) TokenLiteral() string  { return ll.Token.Lexeme }
func (ll *LegacyLet) GetToken() token.Token { return ll.Token }

type With struct {
	Token     token.Token
	Namespace Expression
	Body      Expression
}

func (w *With) Accept(v Visitor)      { v.VisitWith(w) }
func (w *With) expressionNode()       {}
func (w *With) TokenLiteral() string  { return w.Token.Lexeme }
func (w *With) GetToken() token.Token { return w.Token }

type IfElse struct {
	Token       token.Token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfElse) Accept(v Visitor)      { v.VisitIfElse(ie) }
func (ie *IfElse) expressionNode()       {}
func (ie *IfElse) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfElse) GetToken() token.Token { return ie.Token }

type Assert struct {
	Token     token.Token
	Condition Expression
	Body      Expression
}

func (a *Assert) Accept(v Visitor)      { v.VisitAssert(a) }
func (a *Assert) expressionNode()       {}
func (a *Assert) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Assert) GetToken() token.Token { return a.Token }

// Select is `target.a.b` with an optional `or default`.
type Select struct {
	Token   token.Token // the first '.' token
	Target  Expression
	Path    []*AttrName
	Default Expression
}

func (s *Select) Accept(v Visitor)      { v.VisitSelect(s) }
func (s *Select) expressionNode()       {}
func (s *Select) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Select) GetToken() token.Token { return s.Token }

// HasAttr is `target ? a.b`.
type HasAttr struct {
	Token  token.Token
	Target Expression
	Path   []*AttrName
}

func (h *HasAttr) Accept(v Visitor)      { v.VisitHasAttr(h) }
func (h *HasAttr) expressionNode()       {}
func (h *HasAttr) TokenLiteral() string  { return h.Token.Lexeme }
func (h *HasAttr) GetToken() token.Token { return h.Token }

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)      { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)      { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// Paren keeps explicit grouping so printed code round-trips.
type Paren struct {
	Token token.Token
	Inner Expression
}

func (p *Paren) Accept(v Visitor)      { v.VisitParen(p) }
func (p *Paren) expressionNode()       {}
func (p *Paren) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Paren) GetToken() token.Token { return p.Token }
