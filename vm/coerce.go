package vm

import "math/big"

// promote converts v to the variant of rank r. Values already at or above
// r are returned unchanged.
//
//	Int   -> Array  [v]
//	Int   -> String decimal text
//	Array -> String flattened bytes
//	any   -> Block  compiled from its text; Array elements are joined
//	                with a space first
func (m *Machine) promote(v Value, r Rank) Value {
	if v == nil || v.Rank() >= r {
		return v
	}
	switch r {
	case RankArray:
		return NewArray(v)
	case RankString:
		switch x := v.(type) {
		case Int:
			return NewByteString(renderNumber(x))
		case Array:
			return NewByteString(flattenBytes(nil, x))
		}
	case RankBlock:
		switch x := v.(type) {
		case Int:
			return m.Compile(renderNumber(x))
		case Array:
			joined := m.join(x.elems, NewString(" "))
			return m.Compile(flattenBytes(nil, m.promote(joined, RankString)))
		case ByteString:
			return m.Compile(x.bytes())
		}
	}
	return v
}

// coerce promotes the lower-ranked of a and b to the other's variant.
func (m *Machine) coerce(a, b Value) (Value, Value) {
	if a == nil || b == nil {
		return a, b
	}
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra < rb:
		return m.promote(a, rb), b
	case rb < ra:
		return a, m.promote(b, ra)
	}
	return a, b
}

// order returns a and b with the higher-ranked operand first. The
// order-sensitive operators dispatch on their first operand.
func order(a, b Value) (Value, Value) {
	if a != nil && b != nil && a.Rank() < b.Rank() {
		return b, a
	}
	return a, b
}

// flattenBytes appends the bytes of a deep flatten of v to dst: Ints
// contribute their low byte, strings their bytes, blocks their source.
func flattenBytes(dst []byte, v Value) []byte {
	switch x := v.(type) {
	case Int:
		return append(dst, lowByte(x))
	case Array:
		for _, e := range x.elems {
			dst = flattenBytes(dst, e)
		}
		return dst
	case ByteString:
		return append(dst, x.bytes()...)
	case *Block:
		return append(dst, x.src...)
	}
	return dst
}

var byteMask = big.NewInt(0xff)

func lowByte(n Int) byte {
	b := n.Big()
	if b.IsInt64() {
		return byte(b.Int64())
	}
	return byte(new(big.Int).And(b, byteMask).Int64())
}

// factory builds a sequence of the same variant as like from elements.
// Building a Block compiles the flattened bytes.
func (m *Machine) factory(like Value, vs []Value) Value {
	switch like.(type) {
	case ByteString:
		return NewByteString(valuesToBytes(vs))
	case *Block:
		return m.Compile(valuesToBytes(vs))
	}
	return NewArray(vs...)
}

func valuesToBytes(vs []Value) []byte {
	out := make([]byte, 0, len(vs))
	for _, v := range vs {
		out = flattenBytes(out, v)
	}
	return out
}

// sameVariant reports whether a and b are the same variant.
func sameVariant(a, b Value) bool {
	return a != nil && b != nil && a.Rank() == b.Rank()
}
