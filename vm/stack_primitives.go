package vm

import (
	"math/big"
	"sort"
)

func init() {
	defPrimitive("[", 0, noCall, "start an array", func(m *Machine, _ []Value) {
		m.marks = append(m.marks, len(m.stack))
	})
	defPrimitive("]", 0, noCall, "end an array", primCloseArray)
	defPrimitive("`", 1, noCall, "inspect", func(m *Machine, args []Value) {
		m.Push(NewByteString(Inspect(need("`", args[0]))))
	})
	defPrimitive(";", 1, noCall, "discard", func(*Machine, []Value) {})
	defPrimitive(".", 1, noCall, "duplicate", func(m *Machine, args []Value) {
		m.Push(args[0])
		m.Push(args[0])
	})
	defPrimitive("\\", 2, noCall, "swap", func(m *Machine, args []Value) {
		m.Push(args[1])
		m.Push(args[0])
	})
	defPrimitive("@", 3, noCall, "rotate the third element to the top", func(m *Machine, args []Value) {
		m.Push(args[1])
		m.Push(args[2])
		m.Push(args[0])
	})
	defPrimitive("!", 1, noCall, "logical not", func(m *Machine, args []Value) {
		m.Push(boolInt(!Truthy(args[0])))
	})
	defPrimitive("~", 1, mayCall, "bitwise not, dump, evaluate", primTilde)
	defPrimitive("$", 1, mayCall, "copy nth element, sort, sort by", primDollar)
	defPrimitive(",", 1, mayCall, "range, size, select", primComma)
	defPrimitive("(", 1, noCall, "decrement, uncons from the left", func(m *Machine, args []Value) {
		m.uncons("(", args[0], true)
	})
	defPrimitive(")", 1, noCall, "increment, uncons from the right", func(m *Machine, args []Value) {
		m.uncons(")", args[0], false)
	})
	defPrimitive("rand", 1, noCall, "random integer in [0, max(1, n))", primRand)
	defPrimitive("abs", 1, noCall, "absolute value", func(m *Machine, args []Value) {
		m.Push(numAbs(needInt("abs", args[0])))
	})
	defPrimitive("print", 1, noCall, "write the text form", func(m *Machine, args []Value) {
		m.out.Write(Render(need("print", args[0])))
	})
	defPrimitive("zip", 1, noCall, "transpose", primZip)
	defPrimitive("base", 2, noCall, "convert to or from digits in a radix", primBase)
}

// need fails the run when an operand is missing.
func need(op string, v Value) Value {
	if v == nil {
		panic(fatalf(ErrNoValue, "%s", op))
	}
	return v
}

func needInt(op string, v Value) Int {
	n, ok := v.(Int)
	if !ok {
		panic(badOperand(op, v))
	}
	return n
}

func primCloseArray(m *Machine, _ []Value) {
	mark := 0
	if n := len(m.marks); n > 0 {
		mark = m.marks[n-1]
		m.marks = m.marks[:n-1]
	} else {
		m.Warn("unmatched ] collects the whole stack")
	}
	vs := append([]Value(nil), m.stack[mark:]...)
	m.truncate(mark)
	m.Push(NewArray(vs...))
}

func primTilde(m *Machine, args []Value) {
	switch x := need("~", args[0]).(type) {
	case Int:
		m.Push(numNot(x))
	case Array:
		m.pushAll(x.elems)
	case ByteString:
		m.invoke(m.Compile(x.bytes()))
	case *Block:
		m.invoke(x)
	}
}

func primDollar(m *Machine, args []Value) {
	switch x := need("$", args[0]).(type) {
	case Int:
		if v, ok := at(m.stack, ^x.toInt()); ok {
			m.Push(v)
		}
	case *Block:
		coll := need("$", m.pop("sort"))
		vs := elems(coll)
		keys := make([]Value, len(vs))
		for i, v := range vs {
			m.Push(v)
			m.invoke(x)
			keys[i] = m.pop("sort by iteration")
		}
		idx := make([]int, len(vs))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			return Compare(keys[idx[i]], keys[idx[j]]) < 0
		})
		out := make([]Value, len(vs))
		for i, k := range idx {
			out[i] = vs[k]
		}
		m.Push(m.factory(coll, out))
	default:
		vs := append([]Value(nil), elems(x)...)
		sort.SliceStable(vs, func(i, j int) bool { return Compare(vs[i], vs[j]) < 0 })
		m.Push(m.factory(x, vs))
	}
}

func primComma(m *Machine, args []Value) {
	switch x := need(",", args[0]).(type) {
	case Int:
		n := x.toInt()
		out := make([]Value, 0, max(n, 0))
		for i := 0; i < n; i++ {
			out = append(out, intOf(i))
		}
		m.Push(NewArray(out...))
	case *Block:
		coll := need(",", m.pop("comma"))
		var out []Value
		for _, v := range elems(coll) {
			m.Push(v)
			m.invoke(x)
			if Truthy(m.pop("select iteration")) {
				out = append(out, v)
			}
		}
		m.Push(m.factory(coll, out))
	default:
		m.Push(intOf(seqLen(x)))
	}
}

// uncons implements ( and ). Numbers step by one; sequences split off
// their first (left) or last element.
func (m *Machine) uncons(op string, v Value, left bool) {
	if n, ok := need(op, v).(Int); ok {
		if left {
			m.Push(numSub(n, intOf(1)))
		} else {
			m.Push(numAdd(n, intOf(1)))
		}
		return
	}
	vs := elems(v)
	if len(vs) == 0 {
		if left {
			m.Warn("left paren on empty list")
		} else {
			m.Warn("right paren on empty list")
		}
		m.Push(m.factory(v, nil))
		return
	}
	if left {
		m.Push(m.factory(v, vs[1:]))
		m.Push(vs[0])
		return
	}
	m.Push(m.factory(v, vs[:len(vs)-1]))
	m.Push(vs[len(vs)-1])
}

func primRand(m *Machine, args []Value) {
	n := needInt("rand", args[0]).Big()
	if n.Sign() <= 0 || n.Cmp(smallInts[129].Big()) == 0 {
		m.Push(intOf(0))
		return
	}
	if n.IsInt64() {
		m.Push(NewInt(m.rng.Int63n(n.Int64())))
		return
	}
	m.Push(IntFromBig(new(big.Int).Rand(m.rng, n)))
}

func primZip(m *Machine, args []Value) {
	rows := elems(need("zip", args[0]))
	var cols [][]Value
	for _, row := range rows {
		if !isSeq(row) {
			panic(badOperand("zip", row))
		}
		for y, v := range elems(row) {
			if y == len(cols) {
				cols = append(cols, nil)
			}
			cols[y] = append(cols[y], v)
		}
	}
	out := make([]Value, len(cols))
	for i, c := range cols {
		out[i] = m.factory(rows[0], c)
	}
	m.Push(NewArray(out...))
}

// primBase converts an array of digits to a number, or a number to its
// digits, in the radix on top of the stack.
func primBase(m *Machine, args []Value) {
	radix := needInt("base", args[1])
	switch x := need("base", args[0]).(type) {
	case Int:
		r := radix.Big()
		i := new(big.Int).Abs(x.Big())
		if i.Sign() != 0 && r.CmpAbs(smallInts[129].Big()) <= 0 {
			panic(fatalf(ErrBadOperand, "base %s", radix))
		}
		var digits []Value
		for i.Sign() != 0 {
			q, d := floorDivMod(i, r)
			digits = append(digits, IntFromBig(d))
			i = q
		}
		m.Push(NewArray(reversed(digits)...))
	default:
		acc := intOf(0)
		for _, d := range elems(x) {
			acc = numAdd(numMul(acc, radix), needInt("base", d))
		}
		m.Push(acc)
	}
}
