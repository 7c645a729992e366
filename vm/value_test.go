package vm

import (
	"math/big"
	"testing"
)

func ints(ns ...int) []Value {
	out := make([]Value, len(ns))
	for i, n := range ns {
		out[i] = intOf(n)
	}
	return out
}

func inspect(vs []Value) string {
	return string(Inspect(NewArray(vs...)))
}

// ---------------------------------------------------------------------------
// Numbers
// ---------------------------------------------------------------------------

func TestNumberArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Int
		want string
	}{
		{"add", numAdd(NewInt(2), NewInt(3)), "5"},
		{"sub", numSub(NewInt(2), NewInt(3)), "-1"},
		{"mul big", numMul(NewInt(1<<62), NewInt(4)), "18446744073709551616"},
		{"floor div", numDiv(NewInt(-7), NewInt(2)), "-4"},
		{"floor mod", numMod(NewInt(-7), NewInt(2)), "1"},
		{"mod takes divisor sign", numMod(NewInt(7), NewInt(-2)), "-1"},
		{"pow", numPow(NewInt(2), NewInt(10), false), "1024"},
		{"negative pow float", numPow(NewInt(2), NewInt(-1), false), "0.5"},
		{"negative pow rational", numPow(NewInt(2), NewInt(-2), true), "1/4"},
		{"not", numNot(NewInt(5)), "-6"},
		{"xor", numXor(NewInt(5), NewInt(3)), "6"},
		{"abs", numAbs(NewInt(-9)), "9"},
	}
	for _, tt := range tests {
		if got := tt.got.String(); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDivideByZeroIsFatal(t *testing.T) {
	defer func() {
		fe, ok := recover().(*FatalError)
		if !ok || fe.Err != ErrDivideByZero {
			t.Errorf("recovered %v, want divide by zero", fe)
		}
	}()
	numDiv(NewInt(1), NewInt(0))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0.5, "0.5"},
		{2, "2.0"},
		{0, "0.0"},
		{1e20, "1.0e+20"},
		{1e-5, "1.0e-05"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.f); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestIntFromBig(t *testing.T) {
	n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	v := IntFromBig(n)
	if v.String() != "123456789012345678901234567890" {
		t.Errorf("IntFromBig = %s", v)
	}
	if !v.IsExact() {
		t.Error("IntFromBig should be exact")
	}
}

// ---------------------------------------------------------------------------
// Equality and ordering
// ---------------------------------------------------------------------------

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{NewInt(1), NewInt(1), true},
		{NewInt(1), NewInt(2), false},
		{NewInt(97), NewString("a"), false},
		{NewArray(ints(97)...), NewString("a"), true},
		{NewString("ab"), NewString("ab"), true},
		{NewArray(ints(1, 2)...), NewArray(ints(1, 2)...), true},
		{NewArray(ints(1, 2)...), NewArray(ints(1)...), false},
		{floatNum(2), NewInt(2), true},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Value
		want int
	}{
		{NewInt(1), NewInt(2), -1},
		{NewInt(5), NewString("a"), -1},
		{NewString("b"), NewString("a"), 1},
		{NewString("ab"), NewString("abc"), -1},
		{NewArray(ints(1, 3)...), NewArray(ints(1, 2, 9)...), 1},
		{NewArray(), NewArray(), 0},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValueKeyMatchesEqual(t *testing.T) {
	if valueKey(floatNum(3)) != valueKey(NewInt(3)) {
		t.Error("3.0 and 3 should share a key")
	}
	if valueKey(NewArray(ints(97)...)) != valueKey(NewString("a")) {
		t.Error("[97] and \"a\" should share a key")
	}
	if valueKey(NewInt(1)) == valueKey(NewArray(ints(1)...)) {
		t.Error("1 and [1] should not share a key")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{NewInt(0), false},
		{NewInt(-1), true},
		{NewArray(), false},
		{NewString(""), false},
		{NewString("0"), true},
		{nil, false},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func TestRenderAndInspect(t *testing.T) {
	v := NewArray(NewInt(1), NewString("a\"b\n"), NewArray(NewInt(2), NewString("#{x}")))
	if got := string(Render(v)); got != "1a\"b\n2#{x}" {
		t.Errorf("Render = %q", got)
	}
	if got := string(Inspect(v)); got != `[1 "a\"b\n" [2 "\#{x}"]]` {
		t.Errorf("Inspect = %q", got)
	}
	if got := string(Inspect(NewByteString([]byte{0, 0xff}))); got != `"\x00\xFF"` {
		t.Errorf("Inspect bytes = %q", got)
	}
}

func TestLazyString(t *testing.T) {
	reads := 0
	s := NewLazyString(func() []byte {
		reads++
		return []byte("abc")
	})
	if got := string(Render(s)); got != "" {
		t.Errorf("Render = %q, want empty", got)
	}
	if got := string(Inspect(s)); got != "LazyInput" {
		t.Errorf("Inspect = %q, want %q", got, "LazyInput")
	}
	if reads != 0 {
		t.Fatalf("reads = %d before use, want 0", reads)
	}
	dup := s
	if got := dup.Len(); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}
	if !Equal(s, NewString("abc")) {
		t.Errorf("Equal(%v, \"abc\") = false, want true", s)
	}
	if reads != 1 {
		t.Errorf("reads = %d, want 1", reads)
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(NewInt(3)); got != `integer "3"` {
		t.Errorf("Describe(3) = %q", got)
	}
	if got := Describe(nil); got != "nil" {
		t.Errorf("Describe(nil) = %q", got)
	}
}
