package lexer

import "github.com/funvibe/nixeval/internal/token"

// TokenStream buffers the full token sequence so the parser can look ahead
// arbitrarily far (needed to tell lambda patterns from attribute sets).
type TokenStream struct {
	tokens []token.Token
	pos    int
}

func NewTokenStream(l *Lexer) *TokenStream {
	ts := &TokenStream{}
	for {
		tok := l.NextToken()
		ts.tokens = append(ts.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return ts
}

// Next returns the next token; EOF repeats once the input is exhausted.
func (ts *TokenStream) Next() token.Token {
	tok := ts.Peek(0)
	if ts.pos < len(ts.tokens)-1 {
		ts.pos++
	}
	return tok
}

// Peek returns the token n positions ahead without consuming anything.
func (ts *TokenStream) Peek(n int) token.Token {
	i := ts.pos + n
	if i >= len(ts.tokens) {
		return ts.tokens[len(ts.tokens)-1]
	}
	return ts.tokens[i]
}
