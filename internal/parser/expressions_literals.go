package parser

import (
	"strings"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/lexer"
	"github.com/funvibe/nixeval/internal/token"
)

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLiteral{Token: p.curToken, Value: p.curToken.Literal.(float64)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

// parseURI treats an unquoted URI as a plain string.
func (p *Parser) parseURI() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parsePathLiteral() ast.Expression {
	lit := &ast.PathLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
	switch {
	case p.curTokenIs(token.SPATH):
		lit.Kind = ast.PathSearch
	case p.curTokenIs(token.HPATH):
		lit.Kind = ast.PathHome
	case strings.HasPrefix(lit.Value, "/"):
		lit.Kind = ast.PathAbsolute
	default:
		lit.Kind = ast.PathRelative
	}
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return p.parseInterpolatedString()
}

// parseInterpolatedString parses strings with ${} interpolation
func (p *Parser) parseInterpolatedString() ast.Expression {
	tok := p.curToken
	raw := p.curToken.Literal.(string)
	indented := p.curTokenIs(token.IND_STRING)

	segments, ok := p.splitInterpolation(raw, indented)
	if !ok {
		return nil
	}
	if indented {
		segments = stripIndentation(segments)
	}

	var parts []ast.Expression
	for _, seg := range segments {
		if seg.expr != nil {
			parts = append(parts, seg.expr)
			continue
		}
		var text string
		if indented {
			text = unescapeIndented(seg.text)
		} else {
			text = unescapeString(seg.text)
		}
		// Merge consecutive literals.
		if len(parts) > 0 {
			if prev, ok := parts[len(parts)-1].(*ast.StringLiteral); ok {
				prev.Value += text
				continue
			}
		}
		parts = append(parts, &ast.StringLiteral{Token: tok, Value: text})
	}

	if len(parts) == 0 {
		return &ast.StringLiteral{Token: tok, Value: ""}
	}
	if len(parts) == 1 {
		if sl, ok := parts[0].(*ast.StringLiteral); ok {
			return sl
		}
	}
	return &ast.InterpolatedString{Token: tok, Parts: parts, Indented: indented}
}

// segment is a piece of a string body: raw literal text or a parsed ${} expression.
type segment struct {
	text string
	expr ast.Expression
}

// splitInterpolation splits a raw string body into literal text and
// interpolated expressions. Escapes are left in the literal text.
func (p *Parser) splitInterpolation(raw string, indented bool) ([]segment, bool) {
	var segments []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case !indented && c == '\\' && i+1 < len(raw):
			lit.WriteString(raw[i : i+2])
			i += 2
		case indented && c == '\'' && strings.HasPrefix(raw[i:], "''"):
			n := 3
			if strings.HasPrefix(raw[i:], "''\\") {
				n = 4
			}
			if i+n > len(raw) {
				n = len(raw) - i
			}
			lit.WriteString(raw[i : i+n])
			i += n
		case c == '$' && i+1 < len(raw) && raw[i+1] == '$':
			lit.WriteString("$$")
			i += 2
		case c == '$' && i+1 < len(raw) && raw[i+1] == '{':
			end, ok := lexer.ScanInterpolation(raw, i+2)
			if !ok {
				p.addError(diagnostics.ErrL002, p.curToken, "unterminated interpolation")
				return nil, false
			}
			flush()
			expr := p.parseEmbeddedExpression(raw[i+2 : end])
			if expr == nil {
				return nil, false
			}
			segments = append(segments, segment{expr: expr})
			i = end + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return segments, true
}

// parseEmbeddedExpression parses a string as an expression
func (p *Parser) parseEmbeddedExpression(exprStr string) ast.Expression {
	l := lexer.New(exprStr)
	stream := lexer.NewTokenStream(l)
	embedded := New(stream, p.ctx)
	if embedded.curTokenIs(token.EOF) {
		p.addError(diagnostics.ErrP003, p.curToken, "empty interpolation")
		return nil
	}
	expr := embedded.parseExpression(LOWEST)
	if expr != nil && !embedded.peekTokenIs(token.EOF) {
		p.addError(diagnostics.ErrP005, p.curToken, "unexpected "+describe(embedded.peekToken)+" in interpolation")
		return nil
	}
	return expr
}

// stripIndentation removes the common leading-space indentation of an
// indented string, its whitespace-only first line and its whitespace-only
// trailing line. Interpolations count as line content.
func stripIndentation(segments []segment) []segment {
	minIndent := -1
	atLineStart, indent := true, 0
	for _, seg := range segments {
		if seg.expr != nil {
			if atLineStart && (minIndent < 0 || indent < minIndent) {
				minIndent = indent
			}
			atLineStart = false
			continue
		}
		for i := 0; i < len(seg.text); i++ {
			c := seg.text[i]
			switch {
			case c == '\n':
				atLineStart, indent = true, 0
			case atLineStart && c == ' ':
				indent++
			case atLineStart:
				if minIndent < 0 || indent < minIndent {
					minIndent = indent
				}
				atLineStart = false
			}
		}
	}
	if minIndent < 0 {
		minIndent = 0
	}

	out := make([]segment, 0, len(segments))
	atLineStart = true
	removed := 0
	for _, seg := range segments {
		if seg.expr != nil {
			out = append(out, seg)
			atLineStart = false
			continue
		}
		var b strings.Builder
		for i := 0; i < len(seg.text); i++ {
			c := seg.text[i]
			switch {
			case c == '\n':
				b.WriteByte(c)
				atLineStart, removed = true, 0
			case atLineStart && c == ' ' && removed < minIndent:
				removed++
			default:
				b.WriteByte(c)
				atLineStart = false
			}
		}
		out = append(out, segment{text: b.String()})
	}

	if len(out) > 0 && out[0].expr == nil {
		if nl := strings.IndexByte(out[0].text, '\n'); nl >= 0 && strings.TrimLeft(out[0].text[:nl], " ") == "" {
			out[0].text = out[0].text[nl+1:]
		}
	}
	if last := len(out) - 1; last >= 0 && out[last].expr == nil {
		text := out[last].text
		nl := strings.LastIndexByte(text, '\n')
		if strings.TrimLeft(text[nl+1:], " ") == "" && (nl >= 0 || len(out) == 1) {
			out[last].text = text[:nl+1]
		}
	}
	return out
}

func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func unescapeIndented(s string) string {
	if !strings.Contains(s, "''") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.HasPrefix(s[i:], "'''") {
			b.WriteString("''")
			i += 2
			continue
		}
		if strings.HasPrefix(s[i:], "''$") {
			b.WriteByte('$')
			i += 2
			continue
		}
		if strings.HasPrefix(s[i:], "''\\") && i+3 < len(s) {
			switch s[i+3] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i+3])
			}
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
