package vm

// Coercing operators: + - | & ^. Both operands are promoted to the higher
// rank, then numbers do arithmetic and sequences do concatenation or set
// algebra.

func init() {
	defPrimitive("+", 2, noCall, "add numbers, concatenate sequences", func(m *Machine, args []Value) {
		m.Push(m.add(args[0], args[1]))
	})
	defPrimitive("-", 2, noCall, "subtract numbers, remove elements", func(m *Machine, args []Value) {
		m.Push(m.setOp("-", args[0], args[1], numSub, difference))
	})
	defPrimitive("|", 2, noCall, "bitwise or, set union", func(m *Machine, args []Value) {
		m.Push(m.setOp("|", args[0], args[1], numOr, union))
	})
	defPrimitive("&", 2, noCall, "bitwise and, set intersection", func(m *Machine, args []Value) {
		m.Push(m.setOp("&", args[0], args[1], numAnd, intersection))
	})
	defPrimitive("^", 2, noCall, "bitwise xor, symmetric difference", func(m *Machine, args []Value) {
		m.Push(m.setOp("^", args[0], args[1], numXor, symmetricDifference))
	})
}

// add implements +. Two blocks concatenate their sources with a space.
func (m *Machine) add(a, b Value) Value {
	if a == nil || b == nil {
		panic(fatalf(ErrNoValue, "+"))
	}
	a, b = m.coerce(a, b)
	switch x := a.(type) {
	case Int:
		return numAdd(x, b.(Int))
	case Array:
		y := b.(Array)
		out := make([]Value, 0, len(x.elems)+len(y.elems))
		return NewArray(append(append(out, x.elems...), y.elems...)...)
	case ByteString:
		y := b.(ByteString)
		out := make([]byte, 0, len(x.bytes())+len(y.bytes()))
		return NewByteString(append(append(out, x.bytes()...), y.bytes()...))
	case *Block:
		y := b.(*Block)
		src := make([]byte, 0, len(x.src)+1+len(y.src))
		src = append(append(append(src, x.src...), ' '), y.src...)
		return m.Compile(src)
	}
	panic(badOperand("+", a))
}

func (m *Machine) setOp(op string, a, b Value, num func(x, y Int) Int, seq func(x, y []Value) []Value) Value {
	if a == nil || b == nil {
		panic(fatalf(ErrNoValue, "%s", op))
	}
	a, b = m.coerce(a, b)
	if x, ok := a.(Int); ok {
		return num(x, b.(Int))
	}
	return m.factory(a, seq(elems(a), elems(b)))
}
