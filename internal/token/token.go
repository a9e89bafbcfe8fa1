package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string      // source text of the token
	Literal interface{} // decoded value: int64, float64, string
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT"
	INT        TokenType = "INT"
	FLOAT      TokenType = "FLOAT"
	STRING     TokenType = "STRING"     // "..." raw body, escapes and ${} still in place
	IND_STRING TokenType = "IND_STRING" // ''...'' raw body
	URI        TokenType = "URI"
	PATH       TokenType = "PATH"  // ./a, ../a, a/b, /a
	HPATH      TokenType = "HPATH" // ~/a
	SPATH      TokenType = "SPATH" // <nixpkgs>
	INTERP     TokenType = "${"    // dynamic attribute key

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	UPDATE   TokenType = "//"
	CONCAT   TokenType = "++"
	BANG     TokenType = "!"
	QUESTION TokenType = "?"
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	LT       TokenType = "<"
	GT       TokenType = ">"
	LTE      TokenType = "<="
	GTE      TokenType = ">="
	AND      TokenType = "&&"
	OR       TokenType = "||"
	IMPL     TokenType = "->"
	AT       TokenType = "@"
	ELLIPSIS TokenType = "..."

	// Delimiters
	DOT       TokenType = "."
	COMMA     TokenType = ","
	COLON     TokenType = ":"
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	IF      TokenType = "IF"
	THEN    TokenType = "THEN"
	ELSE    TokenType = "ELSE"
	ASSERT  TokenType = "ASSERT"
	WITH    TokenType = "WITH"
	LET     TokenType = "LET"
	IN      TokenType = "IN"
	REC     TokenType = "REC"
	INHERIT TokenType = "INHERIT"
	OR_KW   TokenType = "OR_KW"
	TRUE    TokenType = "TRUE"
	FALSE   TokenType = "FALSE"
	NULL    TokenType = "NULL"
)

var keywords = map[string]TokenType{
	"if":      IF,
	"then":    THEN,
	"else":    ELSE,
	"assert":  ASSERT,
	"with":    WITH,
	"let":     LET,
	"in":      IN,
	"rec":     REC,
	"inherit": INHERIT,
	"or":      OR_KW,
	"true":    TRUE,
	"false":   FALSE,
	"null":    NULL,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
