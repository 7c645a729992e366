package integration_test

import (
	"bytes"
	"testing"

	"github.com/chazu/golfvm/interp"
	"github.com/chazu/golfvm/vm"
)

// ---------------------------------------------------------------------------
// Integration test helpers
// ---------------------------------------------------------------------------

// run executes a whole program the way gs does and returns what it
// printed.
func run(t *testing.T, opts interp.Options, src, input string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	in, err := interp.New(opts)
	if err != nil {
		t.Fatalf("interp.New: %v", err)
	}
	if err := in.RunProgram([]byte(src), vm.NewString(input)); err != nil {
		t.Fatalf("program %q failed: %v\nstderr: %s", src, err, errOut.String())
	}
	return out.String()
}

func expect(t *testing.T, src, input, want string) {
	t.Helper()
	if got := run(t, interp.Options{}, src, input); got != want {
		t.Errorf("%q = %q, want %q", src, got, want)
	}
}

// ---------------------------------------------------------------------------
// Programs
// ---------------------------------------------------------------------------

func TestIntegrationE2E_Factorial(t *testing.T) {
	expect(t, "5,{)}%{*}*", "", "120\n")
	expect(t, "{.1>{.1-f*}{;1}if}:f;25f", "", "15511210043330985984000000\n")
}

func TestIntegrationE2E_Fibonacci(t *testing.T) {
	expect(t, "0 1 10{.@+}*;", "", "55\n")
}

func TestIntegrationE2E_RecursiveGCD(t *testing.T) {
	expect(t, "{.{.@\\%gcd}{;}if}:gcd;48 18gcd", "", "6\n")
}

func TestIntegrationE2E_MutualRecursion(t *testing.T) {
	const defs = "{.{1-odd}{;1}if}:even;{.{1-even}{;0}if}:odd;"
	expect(t, defs+"7even", "", "0\n")
	expect(t, defs+"10even", "", "1\n")
}

func TestIntegrationE2E_Primes(t *testing.T) {
	expect(t, "20,2>{:x;x,2>{x\\%!},,!},`", "", "[2 3 5 7 11 13 17 19]\n")
}

func TestIntegrationE2E_BlockClosures(t *testing.T) {
	expect(t, "{2*}:f;[1 2 3]{f}%`", "", "[2 4 6]\n")
}

func TestIntegrationE2E_WhileTrue(t *testing.T) {
	expect(t, "0 10{.}{.@+\\1-}while;", "", "55\n")
}

func TestIntegrationE2E_TimesRepeat(t *testing.T) {
	expect(t, "1 10{2*}*", "", "1024\n")
}

func TestIntegrationE2E_ArrayAt(t *testing.T) {
	expect(t, "[10 20 30]1=", "", "20\n")
	expect(t, "[10 20 30]-1=", "", "30\n")
}

func TestIntegrationE2E_StringOps(t *testing.T) {
	expect(t, "'hello'-1%", "", "olleh\n")
	expect(t, "'a b c'' '/','*", "", "a,b,c\n")
	expect(t, "'abc'{32-}%", "", "ABC\n")
}

func TestIntegrationE2E_Stdin(t *testing.T) {
	expect(t, "~+", "3 4", "7\n")
	expect(t, "' '%{,}%`", "a bb ccc", "[1 2 3]\n")
	expect(t, "", "echo", "echo\n")
}

func TestIntegrationE2E_EvalExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"'2 3*'~", "6\n"},
		{"{1 2+}~", "3\n"},
		{"[1 2 3]{+}*", "6\n"},
		{"100,{)}%{+}*", "5050\n"},
		{"2 100?", "1267650600228229401496703205376\n"},
	}
	for _, tt := range tests {
		expect(t, tt.src, "", tt.want)
	}
}

func TestIntegrationE2E_EvalGlobalPersistence(t *testing.T) {
	var out bytes.Buffer
	in, err := interp.New(interp.Options{Stdout: &out, Stderr: &out})
	if err != nil {
		t.Fatalf("interp.New: %v", err)
	}
	noMore := func(int) ([]byte, bool) { return nil, false }
	for _, line := range []string{"{2*}:dbl;", "21 dbl"} {
		if err := in.RunLine([]byte(line), noMore); err != nil {
			t.Fatalf("RunLine(%q): %v", line, err)
		}
	}
	if want := "[]\n[42]\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

// Every program must print the same thing whichever tier runs it.
func TestIntegrationE2E_AdaptiveAgreesWithInterpreted(t *testing.T) {
	programs := []string{
		"{.1>{.1-f*}{;1}if}:f;[20,{f}/]`",
		"{.{.@\\%gcd}{;}if}:gcd;[100,{)}%{12gcd}%]`",
		"20,2>{:x;x,2>{x\\%!},,!},`",
		"{1+}:g;0 300{g}* {2+}:g; 300{g}*",
		"{1+}:g;0 300{g.150={7:g;}{}if}*]`",
	}
	for _, src := range programs {
		interpreted := run(t, interp.Options{Interpreted: true}, src, "")
		adaptive := run(t, interp.Options{Threshold: 2}, src, "")
		if interpreted != adaptive {
			t.Errorf("%q: adaptive %q, interpreted %q", src, adaptive, interpreted)
		}
	}
}
