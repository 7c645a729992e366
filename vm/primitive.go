package vm

import "sort"

// Primitive is a built-in operation bound into a slot at start-up.
type Primitive struct {
	Name  string
	Arity int    // operands popped before fn runs
	Safe  bool   // never invokes a block or compiles text
	Doc   string // one-line summary for tooling
	fn    func(m *Machine, args []Value)
}

func (p *Primitive) String() string { return p.Name }

var primitives = map[string]*Primitive{}

// defPrimitive registers a primitive. Called from init functions in the
// *_primitives.go files.
func defPrimitive(name string, arity int, safe bool, doc string, fn func(m *Machine, args []Value)) {
	primitives[name] = &Primitive{Name: name, Arity: arity, Safe: safe, Doc: doc, fn: fn}
}

// bindPrimitives binds every primitive into its slot.
func (m *Machine) bindPrimitives() {
	for name, p := range primitives {
		m.Slots.Lookup(name).Bind(p)
	}
}

// LookupPrimitive returns the primitive registered under name.
func LookupPrimitive(name string) (*Primitive, bool) {
	p, ok := primitives[name]
	return p, ok
}

// Primitives returns every primitive, sorted by name.
func Primitives() []*Primitive {
	out := make([]*Primitive, 0, len(primitives))
	for _, p := range primitives {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Safety flags for defPrimitive.
const (
	noCall  = true  // Safe: never runs user code
	mayCall = false // may invoke a block or compile text
)
