package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"->": 1,
	"||": 2,
	"&&": 3,
	"==": 4,
	"!=": 4,
	"<":  5,
	">":  5,
	"<=": 5,
	">=": 5,
	"//": 6,
	"+":  8,
	"-":  8,
	"*":  9,
	"/":  9,
	"++": 10,
}

const (
	precNot    = 7
	precHas    = 11
	precNegate = 12
	precApply  = 13
	precSelect = 14
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precSelect
}

// Right-associative operators
var rightAssoc = map[string]bool{
	"->": true,
	"//": true,
	"++": true,
}

type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders expr as source text.
func Print(expr ast.Expression) string {
	p := NewCodePrinter()
	p.printExpr(expr, 0, false)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	prec := exprPrecedence(expr)
	needParens := prec < parentPrec
	if infix, ok := expr.(*ast.InfixExpression); ok && prec == parentPrec {
		if isRight != rightAssoc[infix.Operator] {
			needParens = true
		}
	}
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func exprPrecedence(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.InfixExpression:
		return getPrecedence(e.Operator)
	case *ast.PrefixExpression:
		if e.Operator == "!" {
			return precNot
		}
		return precNegate
	case *ast.HasAttr:
		return precHas
	case *ast.Application:
		return precApply
	case *ast.Lambda, *ast.LetIn, *ast.With, *ast.IfElse, *ast.Assert:
		return 0
	}
	return precSelect + 1
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) { p.write(n.Value) }

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	if n.Token.Lexeme != "" {
		p.write(n.Token.Lexeme)
		return
	}
	p.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(`"` + EscapeString(n.Value) + `"`)
}

func (p *CodePrinter) VisitInterpolatedString(n *ast.InterpolatedString) {
	p.write(`"`)
	for _, part := range n.Parts {
		if sl, ok := part.(*ast.StringLiteral); ok {
			p.write(EscapeString(sl.Value))
			continue
		}
		p.write("${")
		p.printExpr(part, 0, false)
		p.write("}")
	}
	p.write(`"`)
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) { p.write("null") }

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) { p.write(n.Value) }

func (p *CodePrinter) VisitPathLiteral(n *ast.PathLiteral) {
	if n.Kind == ast.PathSearch {
		p.write("<" + n.Value + ">")
		return
	}
	p.write(n.Value)
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	if len(n.Elements) == 0 {
		p.write("[ ]")
		return
	}
	p.write("[ ")
	for _, el := range n.Elements {
		p.printExpr(el, precSelect, false)
		p.write(" ")
	}
	p.write("]")
}

func (p *CodePrinter) VisitAttrSetLiteral(n *ast.AttrSetLiteral) {
	if n.Recursive {
		p.write("rec ")
	}
	p.printBindings(n.Bindings)
}

func (p *CodePrinter) printBindings(bindings []ast.Binding) {
	if len(bindings) == 0 {
		p.write("{ }")
		return
	}
	p.write("{ ")
	p.printBindingList(bindings)
	p.write("}")
}

func (p *CodePrinter) printBindingList(bindings []ast.Binding) {
	for _, b := range bindings {
		switch b := b.(type) {
		case *ast.AttrBinding:
			p.printAttrPath(b.Path)
			p.write(" = ")
			p.printExpr(b.Value, 0, false)
			p.write("; ")
		case *ast.Inherit:
			p.write("inherit ")
			if b.From != nil {
				p.write("(")
				p.printExpr(b.From, 0, false)
				p.write(") ")
			}
			for _, name := range b.Names {
				p.printAttrName(name)
				p.write(" ")
			}
			p.write("; ")
		}
	}
}

func (p *CodePrinter) printAttrPath(path []*ast.AttrName) {
	for i, name := range path {
		if i > 0 {
			p.write(".")
		}
		p.printAttrName(name)
	}
}

func (p *CodePrinter) printAttrName(name *ast.AttrName) {
	switch {
	case name.IsStatic():
		p.write(FormatAttrName(name.Static))
	case isStringExpr(name.Expr):
		p.printExpr(name.Expr, 0, false)
	default:
		p.write("${")
		p.printExpr(name.Expr, 0, false)
		p.write("}")
	}
}

func isStringExpr(e ast.Expression) bool {
	_, ok := e.(*ast.InterpolatedString)
	return ok
}

func (p *CodePrinter) VisitLambda(n *ast.Lambda) {
	p.write(n.Param.Value + ": ")
	p.printExpr(n.Body, 0, false)
}

func (p *CodePrinter) VisitApplication(n *ast.Application) {
	p.printExpr(n.Function, precApply, false)
	p.write(" ")
	p.printExpr(n.Argument, precApply+1, true)
}

func (p *CodePrinter) VisitLetIn(n *ast.LetIn) {
	p.write("let ")
	p.printBindingList(n.Bindings)
	p.write("in ")
	p.printExpr(n.Body, 0, false)
}

func (p *CodePrinter) VisitLegacyLet(n *ast.LegacyLet) {
	p.write("let ")
	p.printBindings(n.Bindings)
}

func (p *CodePrinter) VisitWith(n *ast.With) {
	p.write("with ")
	p.printExpr(n.Namespace, 0, false)
	p.write("; ")
	p.printExpr(n.Body, 0, false)
}

func (p *CodePrinter) VisitIfElse(n *ast.IfElse) {
	p.write("if ")
	p.printExpr(n.Condition, 0, false)
	p.write(" then ")
	p.printExpr(n.Consequence, 0, false)
	p.write(" else ")
	p.printExpr(n.Alternative, 0, false)
}

func (p *CodePrinter) VisitAssert(n *ast.Assert) {
	p.write("assert ")
	p.printExpr(n.Condition, 0, false)
	p.write("; ")
	p.printExpr(n.Body, 0, false)
}

func (p *CodePrinter) VisitSelect(n *ast.Select) {
	p.printExpr(n.Target, precSelect+1, false)
	p.write(".")
	p.printAttrPath(n.Path)
	if n.Default != nil {
		p.write(" or ")
		p.printExpr(n.Default, precApply+1, true)
	}
}

func (p *CodePrinter) VisitHasAttr(n *ast.HasAttr) {
	p.printExpr(n.Target, precHas+1, false)
	p.write(" ? ")
	p.printAttrPath(n.Path)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	prec := getPrecedence(n.Operator)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator)
	p.printExpr(n.Right, exprPrecedence(n), false)
}

// Parens are re-derived from precedence, so explicit grouping prints through.
func (p *CodePrinter) VisitParen(n *ast.Paren) {
	p.write("(")
	p.printExpr(n.Inner, 0, false)
	p.write(")")
}

// EscapeString escapes s for use inside a double-quoted string.
func EscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteString(`\$`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatAttrName quotes an attribute name unless it is a plain identifier.
func FormatAttrName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return `"` + EscapeString(name) + `"`
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		letter := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
		if i == 0 && !letter {
			return false
		}
		if !letter && !(c >= '0' && c <= '9') && c != '\'' && c != '-' {
			return false
		}
	}
	return !token.IsKeyword(s)
}
