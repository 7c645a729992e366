package vm

import "bytes"

// Order-sensitive operators: * / % = < > ?. The higher-ranked operand is
// moved to the front and decides the meaning.

func init() {
	defPrimitive("*", 2, mayCall, "multiply, repeat, join, run n times, fold", primTimes)
	defPrimitive("/", 2, mayCall, "divide, chunk, split, each, unfold", primDiv)
	defPrimitive("%", 2, mayCall, "modulo, every nth, clean split, map", primMod)
	defPrimitive("=", 2, mayCall, "equal, element at index", primEqual)
	defPrimitive("<", 2, noCall, "less than, elements before index", primLess)
	defPrimitive(">", 2, noCall, "greater than, elements from index", primGreater)
	defPrimitive("?", 2, mayCall, "power, index of, find", primQuestion)
}

// operands orders args and fails if either is missing.
func operands(op string, args []Value) (Value, Value) {
	a, b := order(args[0], args[1])
	if a == nil || b == nil {
		panic(fatalf(ErrNoValue, "%s", op))
	}
	return a, b
}

func primTimes(m *Machine, args []Value) {
	a, b := operands("*", args)
	switch x := a.(type) {
	case Int:
		m.Push(numMul(x, b.(Int)))
	case *Block:
		if n, ok := b.(Int); ok {
			for i := n.toInt(); i > 0; i-- {
				m.invoke(x)
			}
			return
		}
		vs := elems(b)
		if len(vs) == 0 {
			return
		}
		m.Push(vs[0])
		for _, v := range vs[1:] {
			m.Push(v)
			m.invoke(x)
		}
	default:
		if n, ok := b.(Int); ok {
			m.Push(m.repeat(a, n))
			return
		}
		switch {
		case a.Rank() == RankString && b.Rank() == RankArray:
			m.Push(m.join(elems(b), a))
		case a.Rank() == RankString:
			bs := x.(ByteString).bytes()
			parts := make([]Value, len(bs))
			for i := range bs {
				parts[i] = NewByteString(bs[i : i+1])
			}
			m.Push(m.join(parts, b))
		default:
			m.Push(m.join(elems(a), b))
		}
	}
}

// repeat concatenates n copies of the sequence s.
func (m *Machine) repeat(s Value, n Int) Value {
	if n.Sign() < 0 {
		panic(fatalf(ErrBadOperand, "negative repeat count %s", n))
	}
	count := n.toInt()
	if str, ok := s.(ByteString); ok {
		return NewByteString(bytes.Repeat(str.bytes(), count))
	}
	vs := elems(s)
	out := make([]Value, 0, len(vs)*count)
	for range count {
		out = append(out, vs...)
	}
	return m.factory(s, out)
}

func primDiv(m *Machine, args []Value) {
	a, b := operands("/", args)
	switch x := a.(type) {
	case Int:
		m.Push(numDiv(x, b.(Int)))
	case *Block:
		switch b.(type) {
		case Array, ByteString:
			for _, v := range elems(b) {
				m.Push(v)
				m.invoke(x)
			}
		default:
			m.Push(m.unfold(x, b))
		}
	default:
		if n, ok := b.(Int); ok {
			size := n.toInt()
			if size == 0 {
				panic(fatalf(ErrDivideByZero, "chunk size 0"))
			}
			var out []Value
			for _, c := range chunks(elems(a), size) {
				out = append(out, m.factory(a, c))
			}
			m.Push(NewArray(out...))
			return
		}
		m.Push(m.splitBy(a, b, false))
	}
}

// unfold runs cond on a copy of the top of the stack, collecting that
// value and running body for as long as cond is truthy.
func (m *Machine) unfold(cond *Block, body Value) Value {
	var out []Value
	for {
		if len(m.stack) == 0 {
			m.Warn("unfold on empty stack generates nils")
		} else {
			m.Push(m.stack[len(m.stack)-1])
		}
		m.invoke(cond)
		if !Truthy(m.pop("unfold condition")) {
			break
		}
		if len(m.stack) == 0 {
			m.Warn("unfold on empty stack generates nils")
		} else {
			out = append(out, m.stack[len(m.stack)-1])
		}
		m.invokeValue(body)
	}
	m.pop("unfold result")
	return NewArray(out...)
}

// splitBy splits a at occurrences of sep. Pieces take sep's variant.
func (m *Machine) splitBy(a, sep Value, dropEmpty bool) Value {
	pieces := split(elems(a), elems(sep), dropEmpty)
	out := make([]Value, len(pieces))
	for i, p := range pieces {
		out[i] = m.factory(sep, p)
	}
	return NewArray(out...)
}

func primMod(m *Machine, args []Value) {
	a, b := operands("%", args)
	switch x := a.(type) {
	case Int:
		m.Push(numMod(x, b.(Int)))
	case *Block:
		if !isSeq(b) {
			panic(badOperand("%", b))
		}
		var out []Value
		for _, v := range elems(b) {
			base := len(m.stack)
			m.Push(v)
			m.invoke(x)
			if len(m.stack) > base {
				out = append(out, m.stack[base:]...)
				m.truncate(base)
			}
		}
		if _, ok := b.(ByteString); ok {
			m.Push(NewByteString(valuesToBytes(out)))
			return
		}
		m.Push(NewArray(out...))
	default:
		if n, ok := b.(Int); ok {
			step := n.toInt()
			if step == 0 {
				panic(fatalf(ErrDivideByZero, "step 0"))
			}
			m.Push(m.factory(a, every(elems(a), step)))
			return
		}
		m.Push(m.splitBy(a, b, true))
	}
}

func primEqual(m *Machine, args []Value) {
	a, b := operands("=", args)
	if n, ok := b.(Int); ok && isSeq(a) {
		if v, ok := at(elems(a), n.toInt()); ok {
			m.Push(v)
		}
		return
	}
	m.Push(boolInt(Equal(a, b)))
}

func primLess(m *Machine, args []Value) {
	a, b := operands("<", args)
	if n, ok := b.(Int); ok && isSeq(a) {
		m.Push(m.factory(a, prefix(elems(a), n.toInt())))
		return
	}
	m.Push(boolInt(Compare(a, b) < 0))
}

func primGreater(m *Machine, args []Value) {
	a, b := operands(">", args)
	if n, ok := b.(Int); ok && isSeq(a) {
		m.Push(m.factory(a, suffix(elems(a), n.toInt())))
		return
	}
	m.Push(boolInt(Compare(a, b) > 0))
}

func primQuestion(m *Machine, args []Value) {
	a, b := operands("?", args)
	switch x := a.(type) {
	case Int:
		m.Push(numPow(x, b.(Int), m.Rational))
	case Array:
		m.Push(intOf(indexOf(x.elems, b)))
	case ByteString:
		switch y := b.(type) {
		case ByteString:
			m.Push(intOf(bytes.Index(x.bytes(), y.bytes())))
		case Array:
			m.Push(intOf(indexOf(y.elems, x)))
		default:
			m.Push(intOf(indexOf(elems(x), b)))
		}
	case *Block:
		if !isSeq(b) {
			panic(badOperand("?", b))
		}
		for _, v := range elems(b) {
			m.Push(v)
			m.invoke(x)
			if Truthy(m.pop("? iteration")) {
				m.Push(v)
				return
			}
		}
	}
}
