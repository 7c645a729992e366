package compiler

// ---------------------------------------------------------------------------
// Lexer
// ---------------------------------------------------------------------------

// Tokens is a token sequence over a growing source text. The compiler
// reads it by index; Extend appends more tokens while a parse is in
// progress, which is how interactive input continues an open block.
type Tokens struct {
	src  []byte
	toks []Token
}

// Lex tokenizes src.
func Lex(src []byte) *Tokens {
	ts := &Tokens{}
	ts.Extend(src)
	return ts
}

// Extend lexes text and appends its tokens. The new text is lexed on its
// own: a token never spans the boundary.
func (ts *Tokens) Extend(text []byte) {
	base := len(ts.src)
	ts.src = append(ts.src, text...)
	for pos := 0; pos < len(text); {
		typ, n := scan(text[pos:])
		ts.toks = append(ts.toks, Token{
			Type:    typ,
			Literal: string(text[pos : pos+n]),
			Offset:  base + pos,
		})
		pos += n
	}
}

// Len returns the number of tokens.
func (ts *Tokens) Len() int { return len(ts.toks) }

// At returns token i.
func (ts *Tokens) At(i int) Token { return ts.toks[i] }

// All returns every token. The slice must not be modified.
func (ts *Tokens) All() []Token { return ts.toks }

// Source returns all text lexed so far.
func (ts *Tokens) Source() []byte { return ts.src }

// Text returns the source covered by tokens [from, to).
func (ts *Tokens) Text(from, to int) []byte {
	if from >= to {
		return []byte{}
	}
	start := ts.toks[from].Offset
	last := ts.toks[to-1]
	end := last.Offset + len(last.Literal)
	return append([]byte(nil), ts.src[start:end]...)
}

// Position returns the line and column of token i.
func (ts *Tokens) Position(i int) Position {
	off := ts.toks[i].Offset
	p := Position{Offset: off, Line: 1, Column: 1}
	for _, c := range ts.src[:off] {
		if c == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}

// scan returns the type and length of the token at the start of s, which
// must be non-empty. Categories are tried in order: identifier, string,
// integer, comment, single byte.
func scan(s []byte) (TokenType, int) {
	c := s[0]
	switch {
	case isIdentStart(c):
		n := 1
		for n < len(s) && isIdentPart(s[n]) {
			n++
		}
		return TokenIdentifier, n

	case c == '\'' || c == '"':
		n := 1
		for n < len(s) {
			switch {
			case s[n] == '\\' && n+1 < len(s):
				n += 2
				continue
			case s[n] == c:
				return TokenString, n + 1
			}
			n++
		}
		return TokenString, n // unterminated

	case isDigit(c) || (c == '-' && len(s) > 1 && isDigit(s[1])):
		n := 1
		for n < len(s) && isDigit(s[n]) {
			n++
		}
		return TokenInteger, n

	case c == '#':
		n := 1
		for n < len(s) && s[n] != '\n' && s[n] != '\r' {
			n++
		}
		return TokenComment, n
	}
	return TokenChar, 1
}

// Helper functions

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Tokenize returns all tokens of input.
func Tokenize(input string) []Token {
	return Lex([]byte(input)).All()
}
