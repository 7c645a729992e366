package vm

import "math/big"

// Value is a stack value. The set of implementations is closed:
// Int, Array, ByteString and *Block.
//
// Values are immutable once constructed. Primitives always build new
// slices instead of editing a value in place, so pushing a slot's value
// onto the stack needs no copy: nothing can alter the stored value
// through the pushed one.
type Value interface {
	// Rank orders the variants for coercion: Int < Array < ByteString < Block.
	Rank() Rank
	sealed()
}

// Rank is the coercion rank of a value type.
type Rank uint8

const (
	RankInt Rank = iota
	RankArray
	RankString
	RankBlock
)

var rankNames = [...]string{"integer", "array", "string", "block"}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return "unknown"
}

// ---------------------------------------------------------------------------
// Array
// ---------------------------------------------------------------------------

// Array is an ordered, heterogeneous sequence of values.
type Array struct {
	elems []Value
}

// NewArray wraps vs. The caller must not modify vs afterwards.
func NewArray(vs ...Value) Array {
	return Array{elems: vs}
}

func (Array) Rank() Rank { return RankArray }
func (Array) sealed() {}

// Elems returns the elements. The result must not be modified.
func (a Array) Elems() []Value { return a.elems }

// Len returns the number of elements.
func (a Array) Len() int { return len(a.elems) }

func (a Array) String() string { return string(Inspect(a)) }

// ---------------------------------------------------------------------------
// ByteString
// ---------------------------------------------------------------------------

// ByteString is a sequence of bytes. It behaves like an Array whose
// elements are all byte-valued Ints.
type ByteString struct {
	b    []byte
	lazy *lazyBytes
}

// NewByteString wraps b. The caller must not modify b afterwards.
func NewByteString(b []byte) ByteString {
	return ByteString{b: b}
}

// NewString returns a ByteString holding the bytes of s.
func NewString(s string) ByteString {
	return ByteString{b: []byte(s)}
}

// NewLazyString returns a string whose bytes come from read, called the
// first time any operation looks at them. Copies share the one read.
// Rendering a lazy string yields nothing and inspecting it yields
// LazyInput; neither calls read.
func NewLazyString(read func() []byte) ByteString {
	return ByteString{lazy: &lazyBytes{read: read}}
}

type lazyBytes struct {
	read func() []byte
	b    []byte
	done bool
}

func (l *lazyBytes) get() []byte {
	if !l.done {
		l.b = l.read()
		l.done = true
		l.read = nil
	}
	return l.b
}

func (ByteString) Rank() Rank { return RankString }
func (ByteString) sealed() {}

func (s ByteString) bytes() []byte {
	if s.lazy != nil {
		return s.lazy.get()
	}
	return s.b
}

// Bytes returns the raw bytes. The result must not be modified.
func (s ByteString) Bytes() []byte { return s.bytes() }

// Len returns the number of bytes.
func (s ByteString) Len() int { return len(s.bytes()) }

func (s ByteString) String() string { return string(s.bytes()) }

// ---------------------------------------------------------------------------
// Helpers shared by the primitives
// ---------------------------------------------------------------------------

// smallInts caches the Ints most often produced by byte iteration,
// comparisons and counters.
var smallInts = func() [1024 + 128]Int {
	var t [1024 + 128]Int
	for i := range t {
		t[i] = Int{i: big.NewInt(int64(i - 128))}
	}
	return t
}()

// intOf returns the Int for a machine integer, reusing cached values.
func intOf(n int) Int {
	if n >= -128 && n < 1024 {
		return smallInts[n+128]
	}
	return NewInt(int64(n))
}

// boolInt maps a Go bool to the language's 1/0.
func boolInt(b bool) Int {
	if b {
		return smallInts[129]
	}
	return smallInts[128]
}

// isSeq reports whether v is one of the sequence variants.
func isSeq(v Value) bool {
	switch v.(type) {
	case Array, ByteString, *Block:
		return true
	}
	return false
}

// elems returns the elements of a sequence. ByteString and Block elements
// are their bytes as Ints. Non-sequences yield nil.
func elems(v Value) []Value {
	switch x := v.(type) {
	case Array:
		return x.elems
	case ByteString:
		return bytesToInts(x.bytes())
	case *Block:
		return bytesToInts(x.src)
	}
	return nil
}

func bytesToInts(b []byte) []Value {
	out := make([]Value, len(b))
	for i, c := range b {
		out[i] = smallInts[int(c)+128]
	}
	return out
}

// seqLen returns the element count of a sequence.
func seqLen(v Value) int {
	switch x := v.(type) {
	case Array:
		return len(x.elems)
	case ByteString:
		return len(x.bytes())
	case *Block:
		return len(x.src)
	}
	return 0
}

// Truthy reports the language's truthiness: zero and empty sequences are
// false, everything else is true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Int:
		return x.Sign() != 0
	case nil:
		return false
	default:
		return seqLen(x) != 0
	}
}
