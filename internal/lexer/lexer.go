package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/funvibe/nixeval/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// advance moves the cursor forward n bytes of ASCII input.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

func (l *Lexer) NextToken() token.Token {
	if tok, ok := l.skipWhitespace(); !ok {
		return tok
	}

	line, col := l.line, l.column
	start := l.position

	if l.position >= len(l.input) {
		return token.Token{Type: token.EOF, Lexeme: "", Line: line, Column: col}
	}

	// Paths and URIs win over identifiers, numbers and operators when they match.
	if n := matchPath(l.input, start); n > 0 {
		l.advance(n)
		text := l.input[start : start+n]
		return token.Token{Type: token.PATH, Lexeme: text, Literal: text, Line: line, Column: col}
	}
	if l.ch == '~' {
		if n := matchPath(l.input, start+1); n > 0 && l.input[start+1] == '/' {
			l.advance(n + 1)
			text := l.input[start : start+n+1]
			return token.Token{Type: token.HPATH, Lexeme: text, Literal: text, Line: line, Column: col}
		}
	}
	if l.ch == '<' {
		if n := matchSearchPath(l.input, start); n > 0 {
			l.advance(n)
			text := l.input[start : start+n]
			return token.Token{Type: token.SPATH, Lexeme: text, Literal: text[1 : len(text)-1], Line: line, Column: col}
		}
	}
	if isLetter(l.ch) {
		if n := matchURI(l.input, start); n > 0 {
			l.advance(n)
			text := l.input[start : start+n]
			return token.Token{Type: token.URI, Lexeme: text, Literal: text, Line: line, Column: col}
		}
	}

	var tok token.Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.symbol(token.EQ, 2, line, col)
		} else {
			tok = l.symbol(token.ASSIGN, 1, line, col)
		}
	case '+':
		if l.peekChar() == '+' {
			tok = l.symbol(token.CONCAT, 2, line, col)
		} else {
			tok = l.symbol(token.PLUS, 1, line, col)
		}
	case '-':
		if l.peekChar() == '>' {
			tok = l.symbol(token.IMPL, 2, line, col)
		} else {
			tok = l.symbol(token.MINUS, 1, line, col)
		}
	case '*':
		tok = l.symbol(token.ASTERISK, 1, line, col)
	case '/':
		if l.peekChar() == '/' {
			tok = l.symbol(token.UPDATE, 2, line, col)
		} else {
			tok = l.symbol(token.SLASH, 1, line, col)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.symbol(token.NOT_EQ, 2, line, col)
		} else {
			tok = l.symbol(token.BANG, 1, line, col)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.symbol(token.LTE, 2, line, col)
		} else {
			tok = l.symbol(token.LT, 1, line, col)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.symbol(token.GTE, 2, line, col)
		} else {
			tok = l.symbol(token.GT, 1, line, col)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.symbol(token.AND, 2, line, col)
		} else {
			tok = l.illegal("unexpected character '&'", line, col)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.symbol(token.OR, 2, line, col)
		} else {
			tok = l.illegal("unexpected character '|'", line, col)
		}
	case '?':
		tok = l.symbol(token.QUESTION, 1, line, col)
	case '@':
		tok = l.symbol(token.AT, 1, line, col)
	case '.':
		if l.peekChar() == '.' && start+2 < len(l.input) && l.input[start+2] == '.' {
			tok = l.symbol(token.ELLIPSIS, 3, line, col)
		} else {
			tok = l.symbol(token.DOT, 1, line, col)
		}
	case ',':
		tok = l.symbol(token.COMMA, 1, line, col)
	case ':':
		tok = l.symbol(token.COLON, 1, line, col)
	case ';':
		tok = l.symbol(token.SEMICOLON, 1, line, col)
	case '(':
		tok = l.symbol(token.LPAREN, 1, line, col)
	case ')':
		tok = l.symbol(token.RPAREN, 1, line, col)
	case '{':
		tok = l.symbol(token.LBRACE, 1, line, col)
	case '}':
		tok = l.symbol(token.RBRACE, 1, line, col)
	case '[':
		tok = l.symbol(token.LBRACKET, 1, line, col)
	case ']':
		tok = l.symbol(token.RBRACKET, 1, line, col)
	case '$':
		if l.peekChar() == '{' {
			tok = l.symbol(token.INTERP, 2, line, col)
		} else {
			tok = l.illegal("unexpected character '$'", line, col)
		}
	case '"':
		tok = l.readString(line, col)
	case '\'':
		if l.peekChar() == '\'' {
			tok = l.readIndentedString(line, col)
		} else {
			tok = l.illegal("unexpected character '''", line, col)
		}
	default:
		if isLetter(l.ch) || l.ch == '_' {
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
		}
		if isDigit(l.ch) {
			return l.readNumber(line, col)
		}
		tok = l.illegal("unexpected character '"+string(l.ch)+"'", line, col)
	}
	return tok
}

func (l *Lexer) symbol(t token.TokenType, width int, line, col int) token.Token {
	text := l.input[l.position : l.position+width]
	l.advance(width)
	return token.Token{Type: t, Lexeme: text, Literal: text, Line: line, Column: col}
}

func (l *Lexer) illegal(msg string, line, col int) token.Token {
	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: msg, Line: line, Column: col}
}

// skipWhitespace consumes blanks and comments. An unterminated block comment
// yields an ILLEGAL token.
func (l *Lexer) skipWhitespace() (token.Token, bool) {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.position < len(l.input) {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			line, col := l.line, l.column
			l.advance(2)
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.position >= len(l.input) {
					return token.Token{Type: token.ILLEGAL, Lexeme: "/*", Literal: "unterminated comment", Line: line, Column: col}, false
				}
				l.readChar()
			}
			l.advance(2)
		default:
			return token.Token{}, true
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '\'' || l.ch == '-' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if isFloat && (l.ch == 'e' || l.ch == 'E') {
		next := l.peekChar()
		ok := isDigit(next)
		if (next == '+' || next == '-') && l.readPosition+1 < len(l.input) {
			ok = isDigit(rune(l.input[l.readPosition+1]))
		}
		if ok {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	text := l.input[start:l.position]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: text, Literal: "invalid float literal " + text, Line: line, Column: col}
		}
		return token.Token{Type: token.FLOAT, Lexeme: text, Literal: f, Line: line, Column: col}
	}
	// Integer range is checked during evaluation so overflow surfaces as an
	// unsupported literal rather than a parse error.
	return token.Token{Type: token.INT, Lexeme: text, Literal: text, Line: line, Column: col}
}

// readString reads a double-quoted string. The literal is the raw body with
// escapes and interpolations left in place for the parser to split.
func (l *Lexer) readString(line, col int) token.Token {
	start := l.position
	end, ok := scanString(l.input, start+1)
	if !ok {
		l.advance(len(l.input) - start)
		return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:], Literal: "unterminated string", Line: line, Column: col}
	}
	l.advanceTo(end + 1)
	return token.Token{Type: token.STRING, Lexeme: l.input[start : end+1], Literal: l.input[start+1 : end], Line: line, Column: col}
}

func (l *Lexer) readIndentedString(line, col int) token.Token {
	start := l.position
	end, ok := scanIndentedString(l.input, start+2)
	if !ok {
		l.advance(len(l.input) - start)
		return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:], Literal: "unterminated indented string", Line: line, Column: col}
	}
	l.advanceTo(end + 2)
	return token.Token{Type: token.IND_STRING, Lexeme: l.input[start : end+2], Literal: l.input[start+2 : end], Line: line, Column: col}
}

func (l *Lexer) advanceTo(pos int) {
	for l.position < pos && l.position < len(l.input) {
		l.readChar()
	}
}

// scanString returns the index of the closing quote of a string whose body
// starts at i.
func scanString(s string, i int) (int, bool) {
	for i < len(s) {
		switch {
		case s[i] == '\\':
			i += 2
		case s[i] == '"':
			return i, true
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			end, ok := scanInterpolation(s, i+2)
			if !ok {
				return 0, false
			}
			i = end + 1
		default:
			i++
		}
	}
	return 0, false
}

// scanIndentedString returns the index of the closing '' of an indented
// string whose body starts at i.
func scanIndentedString(s string, i int) (int, bool) {
	for i < len(s) {
		switch {
		case s[i] == '\'' && i+1 < len(s) && s[i+1] == '\'':
			if i+2 < len(s) && (s[i+2] == '\'' || s[i+2] == '$') {
				i += 3
				continue
			}
			if i+2 < len(s) && s[i+2] == '\\' {
				i += 4
				continue
			}
			return i, true
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			end, ok := scanInterpolation(s, i+2)
			if !ok {
				return 0, false
			}
			i = end + 1
		default:
			i++
		}
	}
	return 0, false
}

// scanInterpolation returns the index of the '}' closing an interpolation
// whose code starts at i. Nested braces, strings and comments are skipped.
func scanInterpolation(s string, i int) (int, bool) {
	depth := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			if depth == 0 {
				return i, true
			}
			depth--
			i++
		case c == '"':
			end, ok := scanString(s, i+1)
			if !ok {
				return 0, false
			}
			i = end + 1
		case c == '\'' && i+1 < len(s) && s[i+1] == '\'':
			end, ok := scanIndentedString(s, i+2)
			if !ok {
				return 0, false
			}
			i = end + 2
		case c == '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i += 2
		default:
			i++
		}
	}
	return 0, false
}

// ScanInterpolation exposes the interpolation matcher to the parser.
func ScanInterpolation(s string, i int) (int, bool) {
	return scanInterpolation(s, i)
}

func isPathChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '.' || c == '_' || c == '-' || c == '+'
}

// matchPath matches [pathchar]*(/[pathchar]+)+ at i and returns its length.
func matchPath(s string, i int) int {
	j := i
	for j < len(s) && isPathChar(s[j]) {
		j++
	}
	segments := 0
	for j < len(s) && s[j] == '/' {
		k := j + 1
		for k < len(s) && isPathChar(s[k]) {
			k++
		}
		if k == j+1 {
			break
		}
		j = k
		segments++
	}
	if segments == 0 {
		return 0
	}
	return j - i
}

// matchSearchPath matches <name(/name)*> at i.
func matchSearchPath(s string, i int) int {
	j := i + 1
	for {
		k := j
		for k < len(s) && isPathChar(s[k]) {
			k++
		}
		if k == j {
			return 0
		}
		j = k
		if j < len(s) && s[j] == '/' {
			j++
			continue
		}
		break
	}
	if j < len(s) && s[j] == '>' {
		return j + 1 - i
	}
	return 0
}

func isURIChar(c byte) bool {
	if isPathChar(c) {
		return true
	}
	switch c {
	case '%', '/', '?', ':', '@', '&', '=', '$', ',', '!', '~', '*', '\'':
		return true
	}
	return false
}

// matchURI matches scheme:rest at i.
func matchURI(s string, i int) int {
	j := i + 1
	for j < len(s) && (isASCIILetter(s[j]) || s[j] >= '0' && s[j] <= '9' || s[j] == '+' || s[j] == '-' || s[j] == '.') {
		j++
	}
	if j >= len(s) || s[j] != ':' {
		return 0
	}
	k := j + 1
	for k < len(s) && isURIChar(s[k]) {
		k++
	}
	if k == j+1 {
		return 0
	}
	return k - i
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
