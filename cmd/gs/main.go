// gs runs golf programs. With a file it runs the program once on its
// input; without one it starts an interactive session.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	"golang.org/x/term"

	"github.com/chazu/golfvm/interp"
	"github.com/chazu/golfvm/manifest"
	"github.com/chazu/golfvm/server"
	"github.com/chazu/golfvm/vm"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("golfvm.cli")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	quiet          bool
	rational       bool
	verbose        bool
	interpreted    bool
	threshold      int
	seed           int64
	logCompilation bool
	profile        string
	top            int
	lsp            bool
	lspAddr        string

	set      map[string]bool // flags given explicitly
	files    []string
	input    []string // arguments after --
	hasInput bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	own, input, hasInput := splitArgs(args)

	f := &cliFlags{set: map[string]bool{}, input: input, hasInput: hasInput}
	fs := flag.NewFlagSet("gs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.quiet, "q", false, "No implicit output")
	fs.BoolVar(&f.rational, "r", false, "Negative integer powers give rationals instead of floats")
	fs.Bool("n", false, "Accepted for compatibility; strings are never interpolated")
	fs.BoolVar(&f.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&f.interpreted, "interpreted", false, "Disable the adaptive tier")
	fs.IntVar(&f.threshold, "threshold", vm.DefaultThreshold, "Calls before a block is specialized")
	fs.Int64Var(&f.seed, "seed", 0, "Seed for rand (random when omitted)")
	fs.BoolVar(&f.logCompilation, "log-compilation", false, "Log promotions, invalidations and aborts")
	fs.StringVar(&f.profile, "profile", "", "Write an adaptive-tier profile (CBOR) to this file after running")
	fs.IntVar(&f.top, "top", 20, "Blocks kept in the profile")
	fs.BoolVar(&f.lsp, "lsp", false, "Run the language server on stdio")
	fs.StringVar(&f.lspAddr, "lsp-addr", "", "Run the language server on a TCP address instead of stdio")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gs [options] [program.gs] [-- args...]\n\n")
		fmt.Fprintf(stderr, "Runs program.gs on standard input, or on the arguments after --.\n")
		fmt.Fprintf(stderr, "Without a program, starts an interactive session.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(own); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	f.files = fs.Args()
	if len(f.files) > 1 {
		fs.Usage()
		return nil, fmt.Errorf("multiple filenames present, there can only be one %q", f.files)
	}
	return f, nil
}

// splitArgs separates the arguments after "--", which become the
// program's input instead of standard input.
func splitArgs(args []string) (own, input []string, hasInput bool) {
	for i, a := range args {
		if a == "--" {
			return args[:i], args[i+1:], true
		}
	}
	return args, nil, false
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, f)
	configureLogging(cfg)

	if f.lsp || f.lspAddr != "" {
		return runLSP(f.lspAddr, stderr)
	}

	in, err := interp.New(interpOptions(cfg, stdout, stderr))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	file := cfg.EntryPath()
	if len(f.files) == 1 {
		file = f.files[0]
	}

	status := 0
	if file == "" {
		status = runInteractive(in, cfg, stdin, stdout, stderr)
	} else {
		status = runFile(in, file, f, stdin, stderr)
	}

	if f.profile != "" {
		if err := writeProfile(in.M, f.profile, f.top); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return status
}

func runFile(in *interp.Interpreter, path string, f *cliFlags, stdin io.Reader, stderr io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var input vm.Value
	if f.hasInput {
		input = interp.ArgsInput(f.input)
	} else {
		input, err = interp.StdinInput(stdin, isTerminal(stdin), stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	log.Debugf("running %s", path)
	if err := in.RunProgram(src, input); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runLSP(addr string, stderr io.Writer) int {
	m, err := server.NewReferenceMachine()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	s := server.NewLSP(m)
	if addr != "" {
		err = s.RunTCP(addr)
	} else {
		err = s.Run()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}

func writeProfile(m *vm.Machine, path string, top int) error {
	data, err := vm.MarshalProfile(m.Report(top))
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	log.Infof("wrote profile to %s", path)
	return nil
}

// isTerminal reports whether r is a terminal file.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
