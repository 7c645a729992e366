package vm

import "strings"

// Equal reports value equality. Ints compare numerically and never equal
// a sequence. Sequences of any variant compare element by element, with
// string and block elements taken as byte Ints, so [97] equals "a".
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := a.(Int); ok {
		y, ok := b.(Int)
		return ok && numCmp(x, y) == 0
	}
	if _, ok := b.(Int); ok {
		return false
	}
	if ab, ok := byteView(a); ok {
		if bb, ok := byteView(b); ok {
			return string(ab) == string(bb)
		}
	}
	ea, eb := elems(a), elems(b)
	if len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if !Equal(ea[i], eb[i]) {
			return false
		}
	}
	return true
}

// Compare orders a and b: numerically for Ints, lexicographically over
// elements for sequences. An Int orders before any sequence.
func Compare(a, b Value) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	x, xInt := a.(Int)
	y, yInt := b.(Int)
	switch {
	case xInt && yInt:
		return numCmp(x, y)
	case xInt:
		return -1
	case yInt:
		return 1
	}
	if ab, ok := byteView(a); ok {
		if bb, ok := byteView(b); ok {
			return strings.Compare(string(ab), string(bb))
		}
	}
	ea, eb := elems(a), elems(b)
	for i := 0; i < len(ea) && i < len(eb); i++ {
		if c := Compare(ea[i], eb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ea) < len(eb):
		return -1
	case len(ea) > len(eb):
		return 1
	}
	return 0
}

// byteView returns the bytes of a string or block.
func byteView(v Value) ([]byte, bool) {
	switch x := v.(type) {
	case ByteString:
		return x.bytes(), true
	case *Block:
		return x.src, true
	}
	return nil, false
}

// valueKey returns a map key such that Equal values share a key. The set
// operators and index-of use it.
func valueKey(v Value) string {
	var sb strings.Builder
	writeKey(&sb, v)
	return sb.String()
}

func writeKey(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		sb.WriteByte('_')
	case Int:
		sb.WriteByte('i')
		if x.kind == numExact {
			sb.Write(renderNumber(x))
		} else if c := x.rat(); c.IsInt() {
			sb.WriteString(c.Num().String())
		} else {
			sb.WriteString(c.RatString())
		}
		sb.WriteByte(';')
	default:
		sb.WriteByte('[')
		for _, e := range elems(v) {
			writeKey(sb, e)
		}
		sb.WriteByte(']')
	}
}
