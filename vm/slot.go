package vm

import (
	"sort"
	"strconv"
)

// Slot is a named binding cell shared by every block that mentions the
// name. It holds nothing, a Value, or a native primitive.
type Slot struct {
	Name   string
	value  Value
	native *Primitive
}

// Value returns the bound value, nil if the slot is empty or native.
func (s *Slot) Value() Value { return s.value }

// Native returns the bound primitive, if any.
func (s *Slot) Native() *Primitive { return s.native }

// Empty reports whether nothing is bound.
func (s *Slot) Empty() bool { return s.value == nil && s.native == nil }

// Set binds v, replacing any primitive.
func (s *Slot) Set(v Value) {
	s.value = v
	s.native = nil
}

// Bind binds a primitive, replacing any value.
func (s *Slot) Bind(p *Primitive) {
	s.native = p
	s.value = nil
}

// SlotTable maps names to slots. Slots are created on first lookup and
// live as long as the table.
type SlotTable struct {
	slots  map[string]*Slot
	blocks int
}

// NewSlotTable returns an empty table.
func NewSlotTable() *SlotTable {
	return &SlotTable{slots: make(map[string]*Slot)}
}

// Lookup returns the slot for name, creating it if needed.
func (t *SlotTable) Lookup(name string) *Slot {
	s, ok := t.slots[name]
	if !ok {
		s = &Slot{Name: name}
		t.slots[name] = s
	}
	return s
}

// Get returns the slot for name without creating it.
func (t *SlotTable) Get(name string) (*Slot, bool) {
	s, ok := t.slots[name]
	return s, ok
}

// Synthesize creates a fresh slot for a captured block literal. The
// generated names ("{1", "{2", ...) cannot be written as identifiers.
func (t *SlotTable) Synthesize() *Slot {
	t.blocks++
	return t.Lookup("{" + strconv.Itoa(t.blocks))
}

// Names returns the names of all non-empty slots, sorted.
func (t *SlotTable) Names() []string {
	names := make([]string, 0, len(t.slots))
	for name, s := range t.slots {
		if !s.Empty() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of slots, bound or not.
func (t *SlotTable) Len() int { return len(t.slots) }
