package lexer

import (
	"testing"

	"github.com/funvibe/nixeval/internal/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextToken(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.TokenType
	}{
		{"let x = 1; in x", []token.TokenType{token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON, token.IN, token.IDENT}},
		{"a // b ++ c", []token.TokenType{token.IDENT, token.UPDATE, token.IDENT, token.CONCAT, token.IDENT}},
		{"a -> b || c && !d", []token.TokenType{token.IDENT, token.IMPL, token.IDENT, token.OR, token.IDENT, token.AND, token.BANG, token.IDENT}},
		{"x == y != z <= w >= v", []token.TokenType{token.IDENT, token.EQ, token.IDENT, token.NOT_EQ, token.IDENT, token.LTE, token.IDENT, token.GTE, token.IDENT}},
		{"1 / 2", []token.TokenType{token.INT, token.SLASH, token.INT}},
		{"./a/b.nix", []token.TokenType{token.PATH}},
		{"a/b", []token.TokenType{token.PATH}},
		{"/etc/hosts", []token.TokenType{token.PATH}},
		{"~/x", []token.TokenType{token.HPATH}},
		{"<nixpkgs/lib>", []token.TokenType{token.SPATH}},
		{"a < b", []token.TokenType{token.IDENT, token.LT, token.IDENT}},
		{"https://example.org/x", []token.TokenType{token.URI}},
		{"x: x", []token.TokenType{token.IDENT, token.COLON, token.IDENT}},
		{"foldl' a-b", []token.TokenType{token.IDENT, token.IDENT}},
		{`"a ${b} c"`, []token.TokenType{token.STRING}},
		{"''\n  text\n''", []token.TokenType{token.IND_STRING}},
		{"{ ${x} = 1; }", []token.TokenType{token.LBRACE, token.INTERP, token.IDENT, token.RBRACE, token.ASSIGN, token.INT, token.SEMICOLON, token.RBRACE}},
		{"a.b or c", []token.TokenType{token.IDENT, token.DOT, token.IDENT, token.OR_KW, token.IDENT}},
		{"{ a, ... }@args", []token.TokenType{token.LBRACE, token.IDENT, token.COMMA, token.ELLIPSIS, token.RBRACE, token.AT, token.IDENT}},
		{"1 # comment\n/* block */ 2", []token.TokenType{token.INT, token.INT}},
		{"1.5 2.5e3 3", []token.TokenType{token.FLOAT, token.FLOAT, token.INT}},
		{"rec inherit with assert if then else true false null", []token.TokenType{
			token.REC, token.INHERIT, token.WITH, token.ASSERT, token.IF, token.THEN, token.ELSE,
			token.TRUE, token.FALSE, token.NULL}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(tt.input)
			if len(toks) != len(tt.expected)+1 {
				t.Fatalf("got %d tokens %v, want %d", len(toks)-1, toks, len(tt.expected))
			}
			for i, want := range tt.expected {
				if toks[i].Type != want {
					t.Errorf("token %d = %s (%q), want %s", i, toks[i].Type, toks[i].Lexeme, want)
				}
			}
		})
	}
}

func TestTokenLiterals(t *testing.T) {
	toks := collect(`<nixpkgs> "a\"b" 2.5`)
	if toks[0].Literal != "nixpkgs" {
		t.Errorf("search path literal = %v, want nixpkgs", toks[0].Literal)
	}
	if toks[1].Literal != `a\"b` {
		t.Errorf("string literal = %v, want raw body", toks[1].Literal)
	}
	if toks[2].Literal != 2.5 {
		t.Errorf("float literal = %v, want 2.5", toks[2].Literal)
	}
}

func TestPositions(t *testing.T) {
	toks := collect("a\n  bb\n\tc")
	want := [][2]int{{1, 1}, {2, 3}, {3, 2}}
	for i, pos := range want {
		if toks[i].Line != pos[0] || toks[i].Column != pos[1] {
			t.Errorf("token %q at %d:%d, want %d:%d", toks[i].Lexeme, toks[i].Line, toks[i].Column, pos[0], pos[1])
		}
	}
}

func TestIllegal(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{`"open`, "unterminated string"},
		{"''open", "unterminated indented string"},
		{"/* open", "unterminated comment"},
		{"a & b", "unexpected character '&'"},
		{"`", "unexpected character '`'"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var found bool
			for _, tok := range collect(tt.input) {
				if tok.Type == token.ILLEGAL {
					found = true
					if tok.Literal != tt.msg {
						t.Errorf("illegal message = %v, want %q", tok.Literal, tt.msg)
					}
				}
			}
			if !found {
				t.Errorf("no ILLEGAL token for %q", tt.input)
			}
		})
	}
}
