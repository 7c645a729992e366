package vm

// Control flow. The condition of every construct is tested by running
// whatever the ! slot currently holds and popping its result, so a
// program that rebinds ! changes how conditions are read.

func init() {
	defPrimitive("if", 2, mayCall, "cond then else if: run then when cond is truthy", primIf)
	defPrimitive("do", 1, mayCall, "run body while it leaves a truthy value", primDo)
	defPrimitive("while", 2, mayCall, "cond body while: run body while cond is truthy", func(m *Machine, args []Value) {
		m.loop("while", args[0], args[1], false)
	})
	defPrimitive("until", 2, mayCall, "cond body until: run body until cond is truthy", func(m *Machine, args []Value) {
		m.loop("until", args[0], args[1], true)
	})
}

// negate runs the ! slot and pops its result, reporting whether that
// result is zero (the condition held).
func (m *Machine) negate(op string) bool {
	m.dispatch(m.not)
	n, ok := m.pop(op).(Int)
	return ok && n.Sign() == 0
}

func primIf(m *Machine, args []Value) {
	if m.negate("if") {
		m.invokeValue(args[0])
	} else {
		m.invokeValue(args[1])
	}
}

func primDo(m *Machine, args []Value) {
	for {
		m.invokeValue(args[0])
		if !m.negate("do") {
			return
		}
	}
}

func (m *Machine) loop(op string, cond, body Value, until bool) {
	for {
		m.invokeValue(cond)
		if m.negate(op) == until {
			return
		}
		m.invokeValue(body)
	}
}
