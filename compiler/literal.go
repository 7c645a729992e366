package compiler

import (
	"math/big"
	"unicode/utf8"

	"github.com/chazu/golfvm/vm"
)

// literalValue returns the constant a literal token denotes.
func literalValue(t Token) vm.Value {
	if t.Type == TokenInteger {
		n, ok := new(big.Int).SetString(t.Literal, 10)
		if !ok {
			return vm.NewInt(0)
		}
		return vm.IntFromBig(n)
	}
	return vm.NewByteString(unquote(t.Literal))
}

// unquote decodes a string literal. Single quotes only unescape \' and
// \\. Double quotes understand the usual backslash escapes; #{ is plain
// text.
func unquote(lit string) []byte {
	q := lit[0]
	body := lit[1:]
	if len(body) > 0 && body[len(body)-1] == q && !escapedAt(body, len(body)-1) {
		body = body[:len(body)-1]
	}
	if q == '\'' {
		return unquoteSingle(body)
	}
	return unquoteDouble(body)
}

// escapedAt reports whether the byte at i is preceded by an odd number of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func unquoteSingle(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '\\') {
			i++
		}
		out = append(out, s[i])
	}
	return out
}

func unquoteDouble(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out = append(out, c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'e':
			out = append(out, 0x1b)
		case 'f':
			out = append(out, '\f')
		case 'v':
			out = append(out, '\v')
		case 's':
			out = append(out, ' ')
		case 'x':
			v, n := digits(s[i+1:], 16, 2)
			if n == 0 {
				out = append(out, 'x')
				continue
			}
			out = append(out, byte(v))
			i += n
		case 'u':
			v, n := digits(s[i+1:], 16, 4)
			if n != 4 {
				out = append(out, 'u')
				continue
			}
			out = utf8.AppendRune(out, rune(v))
			i += n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := digits(s[i:], 8, 3)
			out = append(out, byte(v))
			i += n - 1
		default:
			out = append(out, e)
		}
	}
	return out
}

// digits reads up to limit digits of the given base from the front of s.
func digits(s string, base, limit int) (int, int) {
	v, n := 0, 0
	for n < len(s) && n < limit {
		d := digitVal(s[n])
		if d < 0 || d >= base {
			break
		}
		v = v*base + d
		n++
	}
	return v, n
}

func digitVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
