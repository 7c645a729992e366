package compiler

import (
	"errors"
	"testing"

	"github.com/chazu/golfvm/vm"
)

func newMachine() *vm.Machine {
	m := vm.NewMachine()
	Install(m)
	m.SetDiagnostics(nil)
	return m
}

func kinds(b *vm.Block) []string {
	var out []string
	for _, st := range b.Code() {
		out = append(out, st.Kind.String()+" "+st.Slot.Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompileStatements(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"1 2+", []string{"ref 1", "ref  ", "ref 2", "ref +"}},
		{"{.}:d;", []string{"push {1", "assign d", "ref ;"}},
		{"'s'#c", []string{"ref 's'", "ref #c"}},
		{"1}2", []string{"ref 1"}},
		{"::", []string{"assign :"}},
	}
	for _, tt := range tests {
		m := newMachine()
		b := Compile(m, []byte(tt.src))
		if got := kinds(b); !equalStrings(got, tt.want) {
			t.Errorf("Compile(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestCompileNestedSource(t *testing.T) {
	m := newMachine()
	b := Compile(m, []byte("{a{b}c}"))
	if got := string(b.Source()); got != "{a{b}c}" {
		t.Errorf("outer source = %q", got)
	}
	outer := b.Code()[0].Slot.Value().(*vm.Block)
	if got := string(outer.Source()); got != "a{b}c" {
		t.Errorf("block source = %q, want %q", got, "a{b}c")
	}
	inner := outer.Code()[1].Slot.Value().(*vm.Block)
	if got := string(inner.Source()); got != "b" {
		t.Errorf("inner source = %q, want %q", got, "b")
	}
	if m.Blocks.Len() != 3 {
		t.Errorf("registered blocks = %d, want 3", m.Blocks.Len())
	}
}

func TestLiteralsBindOnce(t *testing.T) {
	m := newMachine()
	Compile(m, []byte("5 'x'"))
	if got := m.Slots.Lookup("5").Value(); !vm.Equal(got, vm.NewInt(5)) {
		t.Errorf("slot 5 = %v", got)
	}
	if got := m.Slots.Lookup("'x'").Value(); !vm.Equal(got, vm.NewString("x")) {
		t.Errorf("slot 'x' = %v", got)
	}

	m.Slots.Lookup("5").Set(vm.NewInt(9))
	Compile(m, []byte("5"))
	if got := m.Slots.Lookup("5").Value(); !vm.Equal(got, vm.NewInt(9)) {
		t.Errorf("recompiling rebound literal: slot 5 = %v, want 9", got)
	}
	if _, ok := m.Slots.Get("foo"); ok {
		t.Error("slot created for a token never compiled")
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		src       string
		msg       string
		token     string
		line, col int
	}{
		{"1 2+\n{1 }}", "unmatched }", "}", 2, 5},
		{"x {1 2", "unmatched {", "{", 1, 3},
		{"1:", "expecting identifier, found EOF", ":", 1, 2},
		{"1: x", "setting the space token (probably accidental)", ":", 1, 2},
		{"1:{", "cannot really set {", ":", 1, 2},
	}
	for _, tt := range tests {
		m := newMachine()
		diags := Diagnostics(m, []byte(tt.src))
		if len(diags) == 0 {
			t.Errorf("%q: no diagnostics", tt.src)
			continue
		}
		d := diags[0]
		if d.Message != tt.msg || d.Token != tt.token || d.Line != tt.line || d.Column != tt.col {
			t.Errorf("%q: got %s, want %d:%d:(%s) %s", tt.src, d, tt.line, tt.col, tt.token, tt.msg)
		}
	}
}

func TestDiagnosticsClean(t *testing.T) {
	m := newMachine()
	if diags := Diagnostics(m, []byte("[1 2 3]{1+}%:x;")); len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
}

func TestDiagnosticsOnlyNew(t *testing.T) {
	m := newMachine()
	Diagnostics(m, []byte("}"))
	if diags := Diagnostics(m, []byte("1:")); len(diags) != 1 {
		t.Errorf("second compile returned %v", diags)
	}
	if diags := Diagnostics(m, []byte("}")); len(diags) != 0 {
		t.Errorf("repeated warning returned %v", diags)
	}
}

func TestCompileInteractive(t *testing.T) {
	m := newMachine()
	lines := []string{"{2", "}}]"}
	var depths []int
	more := func(depth int) ([]byte, bool) {
		depths = append(depths, depth)
		if len(lines) == 0 {
			return nil, false
		}
		l := lines[0]
		lines = lines[1:]
		return []byte(l), true
	}

	b, err := CompileInteractive(m, []byte("[{1"), more)
	if err != nil {
		t.Fatalf("CompileInteractive: %v", err)
	}
	if got := string(b.Source()); got != "[{1\n{2\n}}]" {
		t.Errorf("source = %q", got)
	}
	if len(depths) != 2 || depths[0] != 1 || depths[1] != 2 {
		t.Errorf("depths = %v, want [1 2]", depths)
	}
	if err := m.Execute(b); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := string(vm.Inspect(vm.NewArray(m.Stack()...))); got != "[[{1\n{2\n}}]]" {
		t.Errorf("stack = %s", got)
	}
}

func TestCompileInteractiveComplete(t *testing.T) {
	m := newMachine()
	called := false
	b, err := CompileInteractive(m, []byte("1 2+"), func(int) ([]byte, bool) {
		called = true
		return nil, false
	})
	if err != nil || b == nil {
		t.Fatalf("CompileInteractive = %v, %v", b, err)
	}
	if called {
		t.Error("more called for complete input")
	}
}

func TestCompileInteractiveEndOfInput(t *testing.T) {
	m := newMachine()
	b, err := CompileInteractive(m, []byte("{1"), func(int) ([]byte, bool) { return nil, false })
	if !errors.Is(err, ErrEndOfInput) {
		t.Errorf("err = %v, want ErrEndOfInput", err)
	}
	if b != nil {
		t.Errorf("block = %v, want nil", b)
	}
}

func TestInstall(t *testing.T) {
	m := newMachine()
	if err := m.Run([]byte("'1 2+'~")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := string(vm.Inspect(vm.NewArray(m.Stack()...))); got != "[3]" {
		t.Errorf("stack = %s, want [3]", got)
	}
}
