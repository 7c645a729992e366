package vm

// StmtKind is the kind of a compiled statement.
type StmtKind uint8

const (
	// StmtPushBlock pushes the block held by a synthesized slot.
	StmtPushBlock StmtKind = iota
	// StmtAssign binds the slot to the top of the stack without popping.
	StmtAssign
	// StmtRef runs, pushes or ignores whatever the slot holds.
	StmtRef
)

var stmtKindNames = [...]string{"push", "assign", "ref"}

func (k StmtKind) String() string { return stmtKindNames[k] }

// Stmt is one compiled statement.
type Stmt struct {
	Kind StmtKind
	Slot *Slot
}

// Block is a compiled code block together with the exact source it was
// compiled from. As a sequence its elements are the source bytes.
//
// Each block also carries its adaptive state: a call counter and, once
// hot, a specialized routine (see jit.go).
type Block struct {
	src  []byte
	code []Stmt

	id      int
	epoch   uint64       // registry epoch the fields below belong to
	calls   int          // invocations since the last invalidation
	special *specialized // nil while cold
	steps   []func(*Machine)

	promotions int
	aborts     int
}

func (*Block) Rank() Rank { return RankBlock }
func (*Block) sealed() {}

// Source returns the source text, without the enclosing braces.
func (b *Block) Source() []byte { return b.src }

// Code returns the compiled statements.
func (b *Block) Code() []Stmt { return b.code }

// ID returns the registry id, 0 for unregistered blocks.
func (b *Block) ID() int { return b.id }

func (b *Block) String() string { return "{" + string(b.src) + "}" }

// sync applies any invalidation that happened since b last ran.
func (b *Block) sync(epoch uint64) {
	if b.epoch != epoch {
		b.epoch = epoch
		b.special = nil
		b.calls = 0
	}
}

// Optimized reports whether b currently has a specialized routine.
func (b *Block) Optimized(m *Machine) bool {
	b.sync(m.Blocks.epoch)
	return b.special != nil
}

// Calls returns the invocation count since the last invalidation.
func (b *Block) Calls(m *Machine) int {
	b.sync(m.Blocks.epoch)
	return b.calls
}

// invoke runs b, choosing between the interpreted and the specialized
// path.
func (m *Machine) invoke(b *Block) {
	b.sync(m.Blocks.epoch)
	if h := b.special; h != nil {
		m.prof.recordSpecialized()
		h.run(m)
		return
	}
	b.calls++
	if !m.jit.Enabled || b.calls < m.jit.Threshold {
		m.prof.recordInterpreted()
		b.resume(m, 0)
		return
	}
	h := m.jit.promote(b)
	m.prof.recordSpecialized()
	h.run(m)
}

// resume runs the statements of b from line on with plain per-statement
// dispatch. The per-statement closures are built once and reused, so
// resuming at line 0 on a later call costs nothing extra.
func (b *Block) resume(m *Machine, line int) {
	if b.steps == nil {
		b.steps = make([]func(*Machine), len(b.code))
		for i, st := range b.code {
			b.steps[i] = interpretedStep(st)
		}
	}
	for _, step := range b.steps[line:] {
		step(m)
	}
}

func interpretedStep(st Stmt) func(*Machine) {
	slot := st.Slot
	switch st.Kind {
	case StmtPushBlock:
		return func(m *Machine) { m.Push(slot.value) }
	case StmtAssign:
		return func(m *Machine) { m.assign(slot) }
	default:
		return func(m *Machine) { m.dispatch(slot) }
	}
}
