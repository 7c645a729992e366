// Package interp wires a vm.Machine to the compiler and the prelude and
// runs whole programs or interactive lines the way the gs command does.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/golfvm/compiler"
	"github.com/chazu/golfvm/vm"
)

// Options configures an Interpreter.
type Options struct {
	Rational       bool   // negative powers give exact rationals
	Quiet          bool   // no implicit output after a program
	Interpreted    bool   // disable the adaptive tier
	Threshold      int    // promotion threshold, 0 for the default
	Seed           *int64 // rand seed; nil draws a random one
	LogCompilation bool

	Stdout io.Writer // nil for os.Stdout
	Stderr io.Writer // warnings; nil for os.Stderr
}

// Interpreter owns one machine. The stack and every slot persist across
// calls, which is what the interactive mode relies on.
type Interpreter struct {
	M    *vm.Machine
	opts Options
	log  commonlog.Logger
}

// New creates an interpreter and loads the prelude.
func New(opts Options) (*Interpreter, error) {
	m := vm.NewMachine()
	compiler.Install(m)

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	m.SetOutput(stdout)
	m.SetDiagnostics(stderr)
	m.Rational = opts.Rational
	if opts.Seed != nil {
		m.Seed(*opts.Seed)
	}

	jit := m.JIT()
	jit.Enabled = !opts.Interpreted
	if opts.Threshold > 0 {
		jit.Threshold = opts.Threshold
	}
	jit.LogCompilation = opts.LogCompilation

	if err := m.LoadPrelude(); err != nil {
		return nil, fmt.Errorf("loading prelude: %w", err)
	}
	return &Interpreter{M: m, opts: opts, log: commonlog.GetLogger("golfvm.interp")}, nil
}

// RunProgram runs a whole program with input as the initial stack, then
// prints the stack through puts unless the interpreter is quiet.
func (in *Interpreter) RunProgram(src []byte, input vm.Value) error {
	in.M.SetStack(nil)
	in.M.Push(input)
	if err := in.M.Run(src); err != nil {
		return err
	}
	in.log.Debugf("program finished with %d values on the stack", in.M.Depth())
	if in.opts.Quiet {
		return nil
	}
	return in.show("puts")
}

// RunLine runs one line of interactive input, asking more for further
// lines while a block is open, then prints the inspected stack through p.
// The stack is kept for the next line.
func (in *Interpreter) RunLine(line []byte, more compiler.MoreFunc) error {
	b, err := compiler.CompileInteractive(in.M, line, more)
	if err != nil {
		return err
	}
	if err := in.M.Execute(b); err != nil {
		return err
	}
	return in.show("p")
}

// show pushes the whole stack as one array and runs word on it.
func (in *Interpreter) show(word string) error {
	in.M.Push(vm.NewArray(in.M.Stack()...))
	return in.M.Run([]byte(word))
}

// Eval runs src and returns the resulting stack without printing it.
func (in *Interpreter) Eval(src []byte) ([]vm.Value, error) {
	err := in.M.Run(src)
	return in.M.Stack(), err
}

// StdinInput reads the initial stack value from r. A terminal gives a
// lazy string: nothing is read, and notice is not written to, until the
// program first looks at the input.
func StdinInput(r io.Reader, terminal bool, notice io.Writer) (vm.Value, error) {
	if terminal {
		return vm.NewLazyString(func() []byte {
			if notice != nil {
				fmt.Fprintln(notice, "waiting for input to proceed, Ctrl-D for proceed")
			}
			data, err := io.ReadAll(r)
			if err != nil {
				commonlog.GetLogger("golfvm.interp").Warningf("reading input: %s", err)
			}
			return data
		}), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return vm.NewByteString(data), nil
}

// ArgsInput returns the initial stack value for explicit arguments: an
// array of strings.
func ArgsInput(args []string) vm.Value {
	vs := make([]vm.Value, len(args))
	for i, a := range args {
		vs[i] = vm.NewString(a)
	}
	return vm.NewArray(vs...)
}
