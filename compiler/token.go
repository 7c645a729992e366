package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	TokenIdentifier TokenType = iota // foo, _x1
	TokenString                      // 'raw' or "escaped"
	TokenInteger                     // 42, -7
	TokenComment                     // # to end of line
	TokenChar                        // any other single byte, including whitespace
)

var tokenNames = [...]string{
	TokenIdentifier: "IDENTIFIER",
	TokenString:     "STRING",
	TokenInteger:    "INTEGER",
	TokenComment:    "COMMENT",
	TokenChar:       "CHAR",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Token represents a lexical token. Literal is the exact source text, so
// the literals of a token sequence concatenate back to the source.
type Token struct {
	Type    TokenType
	Literal string
	Offset  int // byte offset of the first byte
}

func (t Token) String() string {
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// IsLiteral reports whether the token denotes a constant.
func (t Token) IsLiteral() bool {
	return t.Type == TokenString || t.Type == TokenInteger
}
