package vm

import "strconv"

// Render returns the text form of v: decimal for numbers, the raw bytes
// of a string, the concatenated renderings of an array's elements, and
// "{source}" for a block.
func Render(v Value) []byte {
	return appendRender(nil, v)
}

func appendRender(dst []byte, v Value) []byte {
	switch x := v.(type) {
	case Int:
		return append(dst, renderNumber(x)...)
	case Array:
		for _, e := range x.elems {
			dst = appendRender(dst, e)
		}
		return dst
	case ByteString:
		return append(dst, x.b...)
	case *Block:
		dst = append(dst, '{')
		dst = append(dst, x.src...)
		return append(dst, '}')
	}
	return dst
}

// Inspect returns the literal-syntax form of v: arrays as "[a b c]",
// strings double-quoted and escaped. Numbers and blocks render as they
// do in Render.
func Inspect(v Value) []byte {
	return appendInspect(nil, v)
}

func appendInspect(dst []byte, v Value) []byte {
	switch x := v.(type) {
	case Array:
		dst = append(dst, '[')
		for i, e := range x.elems {
			if i > 0 {
				dst = append(dst, ' ')
			}
			dst = appendInspect(dst, e)
		}
		return append(dst, ']')
	case ByteString:
		if x.lazy != nil {
			return append(dst, "LazyInput"...)
		}
		return appendQuoted(dst, x.b)
	}
	return appendRender(dst, v)
}

// appendQuoted quotes a binary string: named escapes for the usual control
// characters, \# before an interpolation opener and \xHH for any other
// byte outside printable ASCII.
func appendQuoted(dst, b []byte) []byte {
	const hex = "0123456789ABCDEF"
	dst = append(dst, '"')
	for i, c := range b {
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\r':
			dst = append(dst, '\\', 'r')
		case 0x1b:
			dst = append(dst, '\\', 'e')
		case '\a':
			dst = append(dst, '\\', 'a')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\v':
			dst = append(dst, '\\', 'v')
		case '#':
			if i+1 < len(b) && (b[i+1] == '{' || b[i+1] == '$' || b[i+1] == '@') {
				dst = append(dst, '\\')
			}
			dst = append(dst, c)
		default:
			if c < 0x20 || c >= 0x7f {
				dst = append(dst, '\\', 'x', hex[c>>4], hex[c&0xf])
			} else {
				dst = append(dst, c)
			}
		}
	}
	return append(dst, '"')
}

// Describe is a short human-readable form used in tool output.
func Describe(v Value) string {
	if v == nil {
		return "nil"
	}
	s := string(Inspect(v))
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return v.Rank().String() + " " + strconv.Quote(s)
}
