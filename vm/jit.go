package vm

import (
	"github.com/tliron/commonlog"
)

// DefaultThreshold is the invocation count at which a block is promoted.
const DefaultThreshold = 55

// JIT promotes hot blocks to specialized routines.
//
// A specialized routine is built once from the statements of a block and
// the contents of the slots they mention at that moment. It replaces
// per-statement dispatch with a flat list of steps: primitives are
// applied directly, empty references are dropped and a literal push that
// feeds the next primitive is fused into it. Whatever the routine
// assumed about a slot is only guaranteed until the next unsafe
// assignment, which bumps the registry epoch and so discards every
// routine in the program. Steps that can run user code check afterwards
// that the routine they belong to is still installed and, if not, hand
// the rest of the block to the interpreter.
type JIT struct {
	m   *Machine
	log commonlog.Logger

	// Configuration
	Enabled        bool // master switch; false interprets everything
	Threshold      int  // invocations before promotion
	Fuse           bool // fuse push+primitive pairs
	LogCompilation bool // log promotions and aborts at debug level
}

// NewJIT creates the adaptive tier for m.
func NewJIT(m *Machine) *JIT {
	return &JIT{
		m:         m,
		log:       commonlog.GetLogger("golfvm.vm"),
		Enabled:   true,
		Threshold: DefaultThreshold,
		Fuse:      true,
	}
}

// specialized is a promoted block's routine.
type specialized struct {
	block *Block
	steps []step
}

// step is one unit of a specialized routine. run returns false when the
// routine must stop; execution then resumes interpreted at line+1.
type step struct {
	line int
	run  func(m *Machine) bool
}

// run executes the routine, falling back to the interpreter if a step
// aborts.
func (h *specialized) run(m *Machine) {
	for _, s := range h.steps {
		if !s.run(m) {
			h.block.aborts++
			m.prof.recordAbort()
			if m.jit.LogCompilation {
				m.jit.log.Debugf("block %d left its specialized routine at statement %d", h.block.id, s.line)
			}
			h.block.resume(m, s.line+1)
			return
		}
	}
}

// live reports whether h is still the routine installed on its block.
func (h *specialized) live(m *Machine) bool {
	h.block.sync(m.Blocks.epoch)
	return h.block.special == h
}

// promote builds and installs the specialized routine for b.
func (j *JIT) promote(b *Block) *specialized {
	h := &specialized{block: b}
	h.steps = make([]step, 0, len(b.code))

	// pending is the slot pushed by the previous step when that step is a
	// plain push that the next primitive may consume directly.
	var pending *Slot

	for line, st := range b.code {
		slot := st.Slot
		switch st.Kind {
		case StmtPushBlock:
			h.steps = append(h.steps, pushStep(line, slot))
			pending = slot
			continue

		case StmtAssign:
			h.steps = append(h.steps, assignStep(line, slot))

		case StmtRef:
			switch {
			case slot.native != nil:
				p := slot.native
				if j.Fuse && pending != nil && p.Arity >= 1 {
					h.steps[len(h.steps)-1] = fusedStep(h, line, pending, p)
				} else {
					h.steps = append(h.steps, nativeStep(h, line, p))
				}

			case slot.value == nil:
				// Nothing to do until the slot is assigned, and assigning
				// an empty slot invalidates this routine.
				continue

			case slot.value.Rank() == RankBlock:
				h.steps = append(h.steps, callStep(h, line, slot))

			default:
				h.steps = append(h.steps, pushStep(line, slot))
				pending = slot
				continue
			}
		}
		pending = nil
	}

	b.special = h
	b.promotions++
	j.m.prof.recordPromotion()
	if j.LogCompilation {
		j.log.Debugf("promoted block %d after %d calls (%d statements, %d steps)",
			b.id, b.calls, len(b.code), len(h.steps))
	}
	return h
}

// pushStep pushes the slot's current value. The value is read when the
// step runs: a slot only changes under this routine through an
// assignment, and the assignments that could matter invalidate it.
func pushStep(line int, slot *Slot) step {
	return step{line: line, run: func(m *Machine) bool {
		m.Push(slot.value)
		return true
	}}
}

func assignStep(line int, slot *Slot) step {
	return step{line: line, run: func(m *Machine) bool {
		return !m.assign(slot)
	}}
}

func nativeStep(h *specialized, line int, p *Primitive) step {
	if p.Safe {
		return step{line: line, run: func(m *Machine) bool {
			m.apply(p)
			return true
		}}
	}
	return step{line: line, run: func(m *Machine) bool {
		m.apply(p)
		return h.live(m)
	}}
}

// fusedStep applies p with the pending slot's value as its topmost
// operand, skipping the push and the pop.
func fusedStep(h *specialized, line int, operand *Slot, p *Primitive) step {
	if p.Safe {
		return step{line: line, run: func(m *Machine) bool {
			m.applyWith(p, operand.value)
			return true
		}}
	}
	return step{line: line, run: func(m *Machine) bool {
		m.applyWith(p, operand.value)
		return h.live(m)
	}}
}

// callStep invokes whatever block the slot holds when the step runs;
// blocks may be rebound to other blocks without invalidation.
func callStep(h *specialized, line int, slot *Slot) step {
	return step{line: line, run: func(m *Machine) bool {
		m.dispatch(slot)
		return h.live(m)
	}}
}
