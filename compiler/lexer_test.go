package compiler

import (
	"strings"
	"testing"
)

func TestLexTokens(t *testing.T) {
	input := `foo_1 'a\'b' "x\"y" -12 3-4 # note
{}:+`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenIdentifier, "foo_1"},
		{TokenChar, " "},
		{TokenString, `'a\'b'`},
		{TokenChar, " "},
		{TokenString, `"x\"y"`},
		{TokenChar, " "},
		{TokenInteger, "-12"},
		{TokenChar, " "},
		{TokenInteger, "3"},
		{TokenInteger, "-4"},
		{TokenChar, " "},
		{TokenComment, "# note"},
		{TokenChar, "\n"},
		{TokenChar, "{"},
		{TokenChar, "}"},
		{TokenChar, ":"},
		{TokenChar, "+"},
	}

	toks := Tokenize(input)
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(expected))
	}
	for i, exp := range expected {
		if toks[i].Type != exp.typ || toks[i].Literal != exp.lit {
			t.Errorf("token %d = %v, want %s(%q)", i, toks[i], exp.typ, exp.lit)
		}
	}
}

func TestLexRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"1 2+",
		"[1 2 3]{1+}%",
		"'unterminated",
		"\"esc\\\"aped\" 'x'",
		"a1b2 _c -d -5- #{}\r\n\t",
		"~`!@#$%^&*()_+-=[]{}|;:,.<>?/",
	}
	for _, in := range inputs {
		var sb strings.Builder
		off := 0
		for _, tok := range Tokenize(in) {
			if tok.Offset != off {
				t.Errorf("%q: token %v at offset %d, want %d", in, tok, tok.Offset, off)
			}
			sb.WriteString(tok.Literal)
			off += len(tok.Literal)
		}
		if sb.String() != in {
			t.Errorf("concatenated tokens = %q, want %q", sb.String(), in)
		}
	}
}

func TestLexUnterminatedString(t *testing.T) {
	toks := Tokenize(`1 "abc`)
	last := toks[len(toks)-1]
	if last.Type != TokenString || last.Literal != `"abc` {
		t.Errorf("last token = %v, want STRING(\"abc)", last)
	}
}

func TestTokensExtend(t *testing.T) {
	ts := Lex([]byte("{1"))
	ts.Extend([]byte("\n2}"))
	if got := string(ts.Source()); got != "{1\n2}" {
		t.Errorf("Source = %q", got)
	}
	if ts.Len() != 5 {
		t.Fatalf("Len = %d, want 5", ts.Len())
	}
	if got := string(ts.Text(1, 4)); got != "1\n2" {
		t.Errorf("Text(1, 4) = %q, want %q", got, "1\n2")
	}
	if got := string(ts.Text(2, 2)); got != "" {
		t.Errorf("empty Text = %q", got)
	}
}

func TestTokensPosition(t *testing.T) {
	ts := Lex([]byte("ab\n  c\nd"))
	tests := []struct {
		i         int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 3},
		{4, 2, 3},
		{6, 3, 1},
	}
	for _, tt := range tests {
		p := ts.Position(tt.i)
		if p.Line != tt.line || p.Column != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.i, p.Line, p.Column, tt.line, tt.col)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Type: TokenInteger, Literal: "42"}
	if got := tok.String(); got != `INTEGER("42")` {
		t.Errorf("String() = %s", got)
	}
	long := Token{Type: TokenComment, Literal: "# " + strings.Repeat("x", 30)}
	if got := long.String(); !strings.HasSuffix(got, `...)`) {
		t.Errorf("long String() = %s", got)
	}
	if got := TokenType(99).String(); got != "Token(99)" {
		t.Errorf("unknown type = %s", got)
	}
}
