package vm

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/tliron/commonlog"
)

// CompileFunc compiles source text into a registered block. The compiler
// package provides it; see UseCompiler.
type CompileFunc func(m *Machine, src []byte) *Block

// Machine is the stack machine. It owns the operand stack, the bracket
// marks, the slot table and the block registry, and every operation
// receives it explicitly. A Machine is not safe for concurrent use.
type Machine struct {
	stack []Value
	marks []int

	Slots  *SlotTable
	Blocks *Registry

	// Rational makes a negative power produce an exact rational instead
	// of a float.
	Rational bool

	not     *Slot // consulted by the control primitives
	jit     *JIT
	prof    *Profiler
	warn    *Warner
	out     io.Writer
	compile CompileFunc
	rng     *rand.Rand
	log     commonlog.Logger
}

// NewMachine creates a machine with every primitive bound. Output goes to
// stdout and warnings to stderr until redirected. rand is randomly seeded;
// call Seed for a reproducible sequence.
func NewMachine() *Machine {
	m := &Machine{
		Slots:  NewSlotTable(),
		Blocks: NewRegistry(),
		prof:   NewProfiler(),
		warn:   NewWarner(os.Stderr),
		out:    os.Stdout,
		rng:    rand.New(rand.NewSource(rand.Int63())),
		log:    commonlog.GetLogger("golfvm.vm"),
	}
	m.jit = NewJIT(m)
	m.bindPrimitives()
	m.not = m.Slots.Lookup("!")
	return m
}

// UseCompiler installs the compiler used for block literals built at run
// time (string evaluation, block concatenation, coercion to blocks).
func (m *Machine) UseCompiler(f CompileFunc) { m.compile = f }

// JIT returns the adaptive tier's settings.
func (m *Machine) JIT() *JIT { return m.jit }

// Profiler returns the adaptive tier's counters.
func (m *Machine) Profiler() *Profiler { return m.prof }

// SetOutput redirects print.
func (m *Machine) SetOutput(w io.Writer) { m.out = w }

// Output returns the print destination.
func (m *Machine) Output() io.Writer { return m.out }

// SetDiagnostics redirects warnings. Warnings already reported stay
// deduplicated.
func (m *Machine) SetDiagnostics(w io.Writer) { m.warn.w = w }

// Warner returns the warning sink shared by the machine and the compiler.
func (m *Machine) Warner() *Warner { return m.warn }

// Warn reports a run-time warning.
func (m *Machine) Warn(msg string) { m.warn.Warn(msg) }

// Seed reseeds rand.
func (m *Machine) Seed(seed int64) { m.rng = rand.New(rand.NewSource(seed)) }

// Compile compiles src with the installed compiler.
func (m *Machine) Compile(src []byte) *Block {
	if m.compile == nil {
		panic(&FatalError{Err: ErrNoCompiler})
	}
	return m.compile(m, src)
}

// NewBlock builds a block from compiled statements and registers it.
func (m *Machine) NewBlock(src []byte, code []Stmt) *Block {
	b := &Block{src: src, code: code}
	m.Blocks.Add(b)
	return b
}

// ---------------------------------------------------------------------------
// Stacks
// ---------------------------------------------------------------------------

// Push pushes v. Pushing nil does nothing.
func (m *Machine) Push(v Value) {
	if v != nil {
		m.stack = append(m.stack, v)
	}
}

func (m *Machine) pushAll(vs []Value) {
	for _, v := range vs {
		m.Push(v)
	}
}

// Stack returns a copy of the operand stack, bottom first.
func (m *Machine) Stack() []Value {
	return append([]Value(nil), m.stack...)
}

// SetStack replaces the operand stack and clears the bracket marks.
func (m *Machine) SetStack(vs []Value) {
	m.stack = append(m.stack[:0], vs...)
	m.marks = m.marks[:0]
}

// Depth returns the operand stack height.
func (m *Machine) Depth() int { return len(m.stack) }

// Marks returns a copy of the bracket-mark stack.
func (m *Machine) Marks() []int { return append([]int(nil), m.marks...) }

// popArgs pops n operands, oldest first. Missing operands are padded
// with nil at the front after a warning naming op. Marks above the new
// height are lowered to it.
func (m *Machine) popArgs(n int, op string) []Value {
	args := make([]Value, n)
	m.popInto(args, op)
	return args
}

func (m *Machine) popInto(args []Value, op string) {
	n := len(args)
	have := len(m.stack)
	if have < n {
		m.Warn(fmt.Sprintf("pop on empty stack from %q", op))
		copy(args[n-have:], m.stack)
		m.truncate(0)
		return
	}
	copy(args, m.stack[have-n:])
	m.truncate(have - n)
}

// pop pops one operand.
func (m *Machine) pop(op string) Value {
	if len(m.stack) == 0 {
		m.Warn(fmt.Sprintf("pop on empty stack from %q", op))
		return nil
	}
	v := m.stack[len(m.stack)-1]
	m.truncate(len(m.stack) - 1)
	return v
}

// truncate shrinks the stack to size, keeping every mark within it.
func (m *Machine) truncate(size int) {
	clear(m.stack[size:])
	m.stack = m.stack[:size]
	for i := len(m.marks) - 1; i >= 0; i-- {
		if m.marks[i] > size {
			m.marks[i] = size
		}
	}
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

// Execute runs b. A fatal language error stops the run and is returned;
// the stacks keep whatever state they had at that point.
func (m *Machine) Execute(b *Block) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			m.log.Debugf("fatal: %s", fe)
			err = fe
		}
	}()
	m.invoke(b)
	return nil
}

// Run compiles and executes src.
func (m *Machine) Run(src []byte) error {
	if m.compile == nil {
		return &FatalError{Err: ErrNoCompiler}
	}
	return m.Execute(m.compile(m, src))
}

// dispatch performs a reference to slot: nothing for an empty slot,
// invoke a block, apply a primitive, push anything else.
func (m *Machine) dispatch(slot *Slot) {
	if p := slot.native; p != nil {
		m.apply(p)
		return
	}
	switch v := slot.value.(type) {
	case nil:
	case *Block:
		m.invoke(v)
	default:
		m.stack = append(m.stack, v)
	}
}

// invokeValue runs v if it is a block and pushes it otherwise.
func (m *Machine) invokeValue(v Value) {
	if b, ok := v.(*Block); ok {
		m.invoke(b)
		return
	}
	m.Push(v)
}

// assign binds slot to the top of the stack without popping it. It
// reports whether the assignment was unsafe, in which case every
// specialized routine has been discarded.
func (m *Machine) assign(slot *Slot) bool {
	if len(m.stack) == 0 {
		panic(&FatalError{Err: ErrEmptyAssign})
	}
	top := m.stack[len(m.stack)-1]
	unsafe := unsafeAssignment(slot, top)
	slot.Set(top)
	if unsafe {
		m.invalidate(slot)
	}
	return unsafe
}

// unsafeAssignment reports whether binding v to slot can break an
// assumption a specialized routine made about the slot. Routines call
// whatever block a block-holding slot has at the time, so replacing a
// block with another block is the only safe rebinding; anything else
// changes what a reference to the slot does.
//
// This is stricter than treating only the old value's kind as decisive:
// storing a block into an empty, data or primitive slot also invalidates,
// since routines built while the slot held something else push, skip or
// apply it rather than call it.
func unsafeAssignment(slot *Slot, v Value) bool {
	if _, ok := slot.value.(*Block); !ok {
		return true
	}
	_, ok := v.(*Block)
	return !ok
}

func (m *Machine) invalidate(slot *Slot) {
	m.Blocks.Invalidate()
	m.prof.recordInvalidation()
	if m.jit.LogCompilation {
		m.jit.log.Debugf("assignment to %q invalidated all specialized blocks (epoch %d)", slot.Name, m.Blocks.Epoch())
	}
}

// apply performs primitive p on the stack.
func (m *Machine) apply(p *Primitive) {
	if p.Arity == 0 {
		p.fn(m, nil)
		return
	}
	p.fn(m, m.popArgs(p.Arity, p.Name))
}

// applyWith performs p as if v had just been pushed.
func (m *Machine) applyWith(p *Primitive, v Value) {
	if v == nil || p.Arity == 0 {
		m.Push(v)
		m.apply(p)
		return
	}
	args := make([]Value, p.Arity)
	m.popInto(args[:p.Arity-1], p.Name)
	args[p.Arity-1] = v
	p.fn(m, args)
}
