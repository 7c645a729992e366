package vm

import "weak"

// Registry tracks every block the compiler has built so invalidation can
// reach all of them.
//
// Invalidation is recorded as an epoch bump; a block compares its epoch
// with the registry's the next time it is invoked and drops its
// specialized routine and call count if they differ. That makes the
// sweep O(1) while every block still observes it before its next run.
// Entries are weak so blocks built by evaluating strings at run time can
// be collected; dead entries are pruned when the registry grows.
type Registry struct {
	entries []weak.Pointer[Block]
	epoch   uint64
	nextID  int
	pruneAt int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pruneAt: 256}
}

// Add registers b and assigns its id.
func (r *Registry) Add(b *Block) {
	r.nextID++
	b.id = r.nextID
	b.epoch = r.epoch
	if len(r.entries) >= r.pruneAt {
		r.prune()
	}
	r.entries = append(r.entries, weak.Make(b))
}

// Invalidate discards every block's specialized routine and resets every
// call count.
func (r *Registry) Invalidate() {
	r.epoch++
}

// Epoch returns the number of invalidations so far.
func (r *Registry) Epoch() uint64 { return r.epoch }

// Each calls fn for every live block in creation order.
func (r *Registry) Each(fn func(*Block)) {
	for _, e := range r.entries {
		if b := e.Value(); b != nil {
			b.sync(r.epoch)
			fn(b)
		}
	}
}

// Len returns the number of live blocks.
func (r *Registry) Len() int {
	n := 0
	for _, e := range r.entries {
		if e.Value() != nil {
			n++
		}
	}
	return n
}

func (r *Registry) prune() {
	live := r.entries[:0]
	for _, e := range r.entries {
		if e.Value() != nil {
			live = append(live, e)
		}
	}
	clear(r.entries[len(live):])
	r.entries = live
	if n := 2 * len(live); n > r.pruneAt {
		r.pruneAt = n
	}
}
