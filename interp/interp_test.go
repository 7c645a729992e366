package interp

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chazu/golfvm/compiler"
	"github.com/chazu/golfvm/vm"
)

func newTest(t *testing.T, opts Options) (*Interpreter, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	in, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return in, &out, &errOut
}

func TestRunProgram(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input vm.Value
		want  string
	}{
		{"arithmetic", "1 2+", vm.NewString(""), "3\n"},
		{"input", ".,", vm.NewString("hello"), "hello5\n"},
		{"args", ",", ArgsInput([]string{"a", "b"}), "2\n"},
		{"args kept", "", ArgsInput([]string{"a", "b"}), "ab\n"},
		{"nested", "[1[2'x']]", vm.NewString(""), "12x\n"},
		{"explicit output", "'hi'puts", vm.NewString(""), "hi\n\n"},
		{"rebound puts", "{;'done'print}:puts;", vm.NewString(""), "done"},
		{"words", "'ab'{1+}%", vm.NewString(""), "bc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, _ := newTest(t, Options{})
			if err := in.RunProgram([]byte(tt.src), tt.input); err != nil {
				t.Fatalf("RunProgram: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunProgramQuiet(t *testing.T) {
	in, out, _ := newTest(t, Options{Quiet: true})
	if err := in.RunProgram([]byte("1 2+'x'print"), vm.NewString("")); err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	if out.String() != "x" {
		t.Errorf("output = %q, want %q", out.String(), "x")
	}
}

func TestRunProgramError(t *testing.T) {
	in, out, _ := newTest(t, Options{})
	err := in.RunProgram([]byte("1 0/"), vm.NewString(""))
	if !errors.Is(err, vm.ErrDivideByZero) {
		t.Errorf("err = %v, want ErrDivideByZero", err)
	}
	if out.Len() != 0 {
		t.Errorf("output after fatal error = %q", out.String())
	}
}

func TestRunProgramResetsStack(t *testing.T) {
	in, out, _ := newTest(t, Options{})
	in.RunProgram([]byte("1"), vm.NewString(""))
	in.RunProgram([]byte("2"), vm.NewString(""))
	if out.String() != "1\n2\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestWarningsGoToStderr(t *testing.T) {
	in, out, errOut := newTest(t, Options{})
	if err := in.RunProgram([]byte("]"), vm.NewString("in")); err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	if out.String() != "in\n" {
		t.Errorf("output = %q", out.String())
	}
	if !strings.HasPrefix(errOut.String(), "Warning: ") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRunLine(t *testing.T) {
	in, out, _ := newTest(t, Options{})
	noMore := func(int) ([]byte, bool) { return nil, false }

	for _, line := range []string{"1 2", "+", "'a'"} {
		if err := in.RunLine([]byte(line), noMore); err != nil {
			t.Fatalf("RunLine(%q): %v", line, err)
		}
	}
	want := "[1 2]\n[3]\n[3 \"a\"]\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunLineContinuation(t *testing.T) {
	in, out, _ := newTest(t, Options{})
	lines := []string{"1+}~"}
	more := func(int) ([]byte, bool) {
		if len(lines) == 0 {
			return nil, false
		}
		l := lines[0]
		lines = lines[1:]
		return []byte(l), true
	}
	if err := in.RunLine([]byte("5{"), more); err != nil {
		t.Fatalf("RunLine: %v", err)
	}
	if out.String() != "[6]\n" {
		t.Errorf("output = %q, want %q", out.String(), "[6]\n")
	}
}

func TestRunLineEndOfInput(t *testing.T) {
	in, _, _ := newTest(t, Options{})
	err := in.RunLine([]byte("{"), func(int) ([]byte, bool) { return nil, false })
	if !errors.Is(err, compiler.ErrEndOfInput) {
		t.Errorf("err = %v, want ErrEndOfInput", err)
	}
}

func TestOptions(t *testing.T) {
	in, _, _ := newTest(t, Options{Interpreted: true, Threshold: 7, LogCompilation: true, Rational: true})
	j := in.M.JIT()
	if j.Enabled || j.Threshold != 7 || !j.LogCompilation {
		t.Errorf("JIT = enabled %v, threshold %d, log %v", j.Enabled, j.Threshold, j.LogCompilation)
	}
	vs, err := in.Eval([]byte("2 -1?"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := vm.Inspect(vs[len(vs)-1]); string(got) != "1/2" {
		t.Errorf("rational power = %s, want 1/2", got)
	}

	in, _, _ = newTest(t, Options{})
	if in.M.JIT().Threshold != vm.DefaultThreshold || !in.M.JIT().Enabled {
		t.Errorf("default JIT = %+v", in.M.JIT())
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	seed := int64(42)
	a, _, _ := newTest(t, Options{Seed: &seed})
	b, _, _ := newTest(t, Options{Seed: &seed})
	va, _ := a.Eval([]byte("[10{1000rand}*]"))
	vb, _ := b.Eval([]byte("[10{1000rand}*]"))
	if !vm.Equal(va[0], vb[0]) {
		t.Errorf("rand sequences differ: %v vs %v", va[0], vb[0])
	}
}

func TestUnseededRandVaries(t *testing.T) {
	const src = "[10{1000000rand}*]"
	a, _, _ := newTest(t, Options{})
	b, _, _ := newTest(t, Options{})
	va, err := a.Eval([]byte(src))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	vb, _ := b.Eval([]byte(src))
	if vm.Equal(va[0], vb[0]) {
		t.Errorf("two unseeded runs drew the same sequence %v", va[0])
	}
}

func TestRandRange(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"0rand", "0"},
		{"1rand", "0"},
		{"-5rand", "0"},
	}
	for _, tt := range tests {
		in, _, _ := newTest(t, Options{})
		vs, err := in.Eval([]byte(tt.src))
		if err != nil {
			t.Fatalf("Eval(%q): %v", tt.src, err)
		}
		if got := string(vm.Inspect(vs[len(vs)-1])); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
		}
	}

	in, _, _ := newTest(t, Options{})
	vs, err := in.Eval([]byte("[500{7rand}*]"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	draws := vs[len(vs)-1].(vm.Array).Elems()
	if len(draws) != 500 {
		t.Fatalf("got %d draws, want 500", len(draws))
	}
	seen := map[string]bool{}
	for _, d := range draws {
		if vm.Compare(d, vm.NewInt(0)) < 0 || vm.Compare(d, vm.NewInt(7)) >= 0 {
			t.Errorf("7rand = %v, want a value in [0, 7)", d)
		}
		seen[string(vm.Inspect(d))] = true
	}
	if len(seen) != 7 {
		t.Errorf("500 draws of 7rand hit %d distinct values, want 7", len(seen))
	}
}

func TestStdinInput(t *testing.T) {
	v, err := StdinInput(strings.NewReader("data"), false, nil)
	if err != nil {
		t.Fatalf("StdinInput: %v", err)
	}
	if got := string(vm.Render(v)); got != "data" {
		t.Errorf("input = %q", got)
	}
}

// countingReader counts Read calls.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestStdinInputTerminal(t *testing.T) {
	const notice = "waiting for input to proceed, Ctrl-D for proceed\n"
	tests := []struct {
		name       string
		src        string
		want       string
		wantNotice string
		wantRead   bool
	}{
		{"unused", "1", "1\n", "", false},
		{"dropped", ";2", "2\n", "", false},
		{"rendered", "", "\n", "", false},
		{"inspected", "`", "LazyInput\n", "", false},
		{"length", ",", "4\n", notice, true},
		{"shared copy", ".,\\;", "4\n", notice, true},
		{"compared", "'data'=", "1\n", notice, true},
		{"mapped", "{1+}%", "ebub\n", notice, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &countingReader{r: strings.NewReader("data")}
			var notices bytes.Buffer
			input, err := StdinInput(r, true, &notices)
			if err != nil {
				t.Fatalf("StdinInput: %v", err)
			}
			in, out, _ := newTest(t, Options{})
			if err := in.RunProgram([]byte(tt.src), input); err != nil {
				t.Fatalf("RunProgram: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
			if notices.String() != tt.wantNotice {
				t.Errorf("notice = %q, want %q", notices.String(), tt.wantNotice)
			}
			if got := r.reads > 0; got != tt.wantRead {
				t.Errorf("read = %v, want %v", got, tt.wantRead)
			}
		})
	}
}

func TestArgsInput(t *testing.T) {
	v := ArgsInput([]string{"x", "yz"})
	if got := string(vm.Inspect(v)); got != `["x" "yz"]` {
		t.Errorf("ArgsInput = %s", got)
	}
	if got := string(vm.Inspect(ArgsInput(nil))); got != "[]" {
		t.Errorf("empty ArgsInput = %s", got)
	}
}
