package vm

// Profiler counts block invocations by execution path and tracks the
// adaptive tier's promotions, invalidations and aborted specialized runs.
// Per-block counters live on the Block itself; the profiler holds the
// totals.
//
// A Machine is single-threaded, so the counters are plain integers.
type Profiler struct {
	interpreted   uint64 // invocations that ran statement by statement
	specialized   uint64 // invocations that ran a specialized routine
	promotions    uint64
	invalidations uint64
	aborts        uint64 // specialized runs that fell back mid-block
}

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

func (p *Profiler) recordInterpreted() { p.interpreted++ }
func (p *Profiler) recordSpecialized() { p.specialized++ }
func (p *Profiler) recordPromotion() { p.promotions++ }
func (p *Profiler) recordInvalidation() { p.invalidations++ }
func (p *Profiler) recordAbort() { p.aborts++ }

// Stats holds aggregate adaptive-tier statistics.
type Stats struct {
	Blocks           int    `cbor:"1,keyasint"` // live blocks in the registry
	OptimizedBlocks  int    `cbor:"2,keyasint"` // blocks currently specialized
	InterpretedCalls uint64 `cbor:"3,keyasint"`
	SpecializedCalls uint64 `cbor:"4,keyasint"`
	Promotions       uint64 `cbor:"5,keyasint"`
	Invalidations    uint64 `cbor:"6,keyasint"`
	Aborts           uint64 `cbor:"7,keyasint"`
}

// Stats returns the current statistics for m.
func (m *Machine) Stats() Stats {
	p := m.prof
	s := Stats{
		InterpretedCalls: p.interpreted,
		SpecializedCalls: p.specialized,
		Promotions:       p.promotions,
		Invalidations:    p.invalidations,
		Aborts:           p.aborts,
	}
	m.Blocks.Each(func(b *Block) {
		s.Blocks++
		if b.special != nil {
			s.OptimizedBlocks++
		}
	})
	return s
}

// BlockProfile describes one block's adaptive history.
type BlockProfile struct {
	ID         int    `cbor:"1,keyasint"`
	Source     string `cbor:"2,keyasint"`
	Calls      int    `cbor:"3,keyasint"` // since the last invalidation
	Promotions int    `cbor:"4,keyasint"`
	Aborts     int    `cbor:"5,keyasint"`
	Optimized  bool   `cbor:"6,keyasint"`
}

// TopBlocks returns profiles of the n most often promoted blocks. Blocks
// never promoted are left out.
func (m *Machine) TopBlocks(n int) []BlockProfile {
	var all []BlockProfile
	m.Blocks.Each(func(b *Block) {
		if b.promotions == 0 {
			return
		}
		all = append(all, BlockProfile{
			ID:         b.id,
			Source:     string(b.src),
			Calls:      b.calls,
			Promotions: b.promotions,
			Aborts:     b.aborts,
			Optimized:  b.special != nil,
		})
	})

	// Simple selection sort for top N (fine for small N)
	for i := 0; i < n && i < len(all); i++ {
		maxIdx := i
		for j := i + 1; j < len(all); j++ {
			if all[j].Promotions > all[maxIdx].Promotions {
				maxIdx = j
			}
		}
		all[i], all[maxIdx] = all[maxIdx], all[i]
	}

	if len(all) > n {
		all = all[:n]
	}
	return all
}
