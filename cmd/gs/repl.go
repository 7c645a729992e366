package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/chazu/golfvm/compiler"
	"github.com/chazu/golfvm/interp"
	"github.com/chazu/golfvm/manifest"
	"github.com/chazu/golfvm/vm"
)

// lineReader reads one line of interactive input after showing prompt.
// It returns io.EOF at end of input.
type lineReader interface {
	ReadLine(prompt string) (string, error)
}

type termReader struct {
	t *term.Terminal
}

func (r termReader) ReadLine(prompt string) (string, error) {
	r.t.SetPrompt(prompt)
	return r.t.ReadLine()
}

type scanReader struct {
	s *bufio.Scanner
	w io.Writer
}

func (r *scanReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.w, prompt)
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

// runInteractive starts a session on stdin, using line editing when it
// is a terminal.
func runInteractive(in *interp.Interpreter, cfg *manifest.Manifest, stdin io.Reader, stdout, stderr io.Writer) int {
	var r lineReader = &scanReader{s: bufio.NewScanner(stdin), w: stdout}
	out := stdout

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to set raw mode: %v\n", err)
			return 1
		}
		defer term.Restore(fd, oldState)

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{stdin, stdout}, "> ")
		in.M.SetOutput(t)
		in.M.SetDiagnostics(t)
		r, out = termReader{t}, t
	}

	var hist *History
	if path, err := cfg.HistoryPath(); err != nil {
		log.Warningf("no history: %s", err)
	} else if hist, err = OpenHistory(path, cfg.History.Limit); err != nil {
		log.Warningf("no history: %s", err)
	} else {
		defer hist.Close()
	}

	s := &session{in: in, r: r, out: out, hist: hist}
	return s.loop()
}

// session is one interactive run. The interpreter's stack and slots
// persist from line to line.
type session struct {
	in   *interp.Interpreter
	r    lineReader
	out  io.Writer
	hist *History
}

func (s *session) loop() int {
	fmt.Fprintln(s.out, "golfvm interactive mode")
	for {
		line, err := s.r.ReadLine("> ")
		if err != nil {
			fmt.Fprintln(s.out)
			if err != io.EOF {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				return 1
			}
			return 0
		}
		s.remember(line)

		if s.command(strings.TrimSpace(line)) {
			continue
		}

		err = s.in.RunLine([]byte(line), s.more)
		switch {
		case errors.Is(err, compiler.ErrEndOfInput):
			fmt.Fprintln(s.out)
			return 0
		case err != nil:
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// more reads a continuation line while depth blocks are open.
func (s *session) more(depth int) ([]byte, bool) {
	line, err := s.r.ReadLine(strings.Repeat("  ", depth) + "> ")
	if err != nil {
		return nil, false
	}
	s.remember(line)
	return []byte(line), true
}

func (s *session) remember(line string) {
	if s.hist == nil || strings.TrimSpace(line) == "" {
		return
	}
	if err := s.hist.Add(line); err != nil {
		log.Warningf("%s", err)
	}
}

// command handles a session command. Anything else is program text,
// so only these exact lines are taken.
func (s *session) command(line string) bool {
	switch line {
	case ":help":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  :help      Show this help")
		fmt.Fprintln(s.out, "  :history   Show recent input")
		fmt.Fprintln(s.out, "  :stats     Show adaptive-tier counters")
		fmt.Fprintln(s.out, "  :stack     Clear the stack")
		fmt.Fprintln(s.out, "Anything else is run as a program; Ctrl-D exits.")
	case ":history":
		if s.hist == nil {
			fmt.Fprintln(s.out, "history is not available")
			return true
		}
		lines, err := s.hist.Recent(20)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return true
		}
		for _, l := range lines {
			fmt.Fprintf(s.out, "  %s\n", l)
		}
	case ":stats":
		printStats(s.out, s.in.M)
	case ":stack":
		s.in.M.SetStack(nil)
	default:
		return false
	}
	return true
}

func printStats(w io.Writer, m *vm.Machine) {
	st := m.Stats()
	fmt.Fprintf(w, "blocks %d (optimized %d)\n", st.Blocks, st.OptimizedBlocks)
	fmt.Fprintf(w, "calls interpreted %d, specialized %d\n", st.InterpretedCalls, st.SpecializedCalls)
	fmt.Fprintf(w, "promotions %d, invalidations %d, aborts %d\n", st.Promotions, st.Invalidations, st.Aborts)
	for _, b := range m.TopBlocks(5) {
		fmt.Fprintf(w, "  #%d {%s} calls %d promotions %d\n", b.ID, b.Source, b.Calls, b.Promotions)
	}
}
