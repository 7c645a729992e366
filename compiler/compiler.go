// Package compiler turns program text into blocks for the vm package.
//
// Every token becomes one statement: a nested { } becomes a push of a
// block held in a fresh synthetic slot, ':' followed by a token assigns
// that token's slot, and any other token references the slot named by
// its text. Literal tokens name slots too; the first compilation that
// mentions one binds the constant, so a program that assigns to "1"
// changes what later references to 1 mean.
package compiler

import (
	"errors"

	"github.com/chazu/golfvm/vm"
)

// ErrEndOfInput is returned by CompileInteractive when the input ends
// inside an open block.
var ErrEndOfInput = errors.New("end of input inside a block")

// MoreFunc supplies another line of input while a block is open. depth is
// the number of open blocks. ok is false at end of input.
type MoreFunc func(depth int) (line []byte, ok bool)

// Compiler compiles one token stream against a machine's slot table.
type Compiler struct {
	m    *vm.Machine
	toks *Tokens
	more MoreFunc
	eof  bool // more reported end of input
}

// Compile compiles src into a registered block. Warnings go to the
// machine's warning sink. It has the signature vm.CompileFunc.
func Compile(m *vm.Machine, src []byte) *vm.Block {
	c := &Compiler{m: m, toks: Lex(src)}
	b, _ := c.block(0, 0)
	return b
}

// CompileInteractive compiles src, calling more for additional lines
// while a block is left open. Each line is appended after a newline.
func CompileInteractive(m *vm.Machine, src []byte, more MoreFunc) (*vm.Block, error) {
	c := &Compiler{m: m, toks: Lex(src), more: more}
	b, _ := c.block(0, 0)
	if c.eof {
		return nil, ErrEndOfInput
	}
	return b, nil
}

// Install makes Compile the machine's run-time compiler.
func Install(m *vm.Machine) {
	m.UseCompiler(Compile)
}

// block compiles statements starting at token ind until the matching
// close brace (depth > 0) or the end of input. It returns the block and
// the index of the first token after it.
func (c *Compiler) block(ind, depth int) (*vm.Block, int) {
	var code []vm.Stmt
	begin := ind
	closed := false

loop:
	for {
		if ind >= c.toks.Len() {
			if depth == 0 {
				break
			}
			if c.more == nil {
				c.warn("unmatched {", begin-1)
				break
			}
			for ind >= c.toks.Len() && !c.eof {
				line, ok := c.more(depth)
				if !ok {
					c.eof = true
					break
				}
				c.toks.Extend(append([]byte{'\n'}, line...))
			}
			if c.eof {
				break
			}
		}

		t := c.toks.At(ind)
		ind++

		switch {
		case t.Literal == "{":
			var sub *vm.Block
			sub, ind = c.block(ind, depth+1)
			if c.eof {
				break loop
			}
			slot := c.m.Slots.Synthesize()
			slot.Set(sub)
			code = append(code, vm.Stmt{Kind: vm.StmtPushBlock, Slot: slot})

		case t.Literal == "}":
			if depth == 0 {
				c.warn("unmatched }", ind-1)
			}
			closed = true
			break loop

		case t.Literal == ":":
			if ind >= c.toks.Len() {
				c.warn("expecting identifier, found EOF", ind-1)
				continue
			}
			next := c.toks.At(ind)
			switch next.Literal {
			case " ":
				c.warn("setting the space token (probably accidental)", ind-1)
			case "{", "}", ":":
				c.warn("cannot really set "+next.Literal, ind-1)
			}
			ind++
			code = append(code, vm.Stmt{Kind: vm.StmtAssign, Slot: c.slot(next)})

		default:
			code = append(code, vm.Stmt{Kind: vm.StmtRef, Slot: c.slot(t)})
		}
	}

	end := ind
	if closed {
		end--
	}
	return c.m.NewBlock(c.toks.Text(begin, end), code), ind
}

// slot resolves the slot a token names, binding literal constants into
// empty slots.
func (c *Compiler) slot(t Token) *vm.Slot {
	s := c.m.Slots.Lookup(t.Literal)
	if t.IsLiteral() && s.Empty() {
		s.Set(literalValue(t))
	}
	return s
}

// warn reports a compile-time warning at token i.
func (c *Compiler) warn(msg string, i int) {
	p := c.toks.Position(i)
	c.m.Warner().Report(vm.Diagnostic{
		Message: msg,
		Token:   c.toks.At(i).Literal,
		Offset:  p.Offset,
		Line:    p.Line,
		Column:  p.Column,
	})
}

// Diagnostics compiles src on m and returns the warnings it produced,
// without running anything.
func Diagnostics(m *vm.Machine, src []byte) []vm.Diagnostic {
	before := len(m.Warner().Diagnostics())
	Compile(m, src)
	return append([]vm.Diagnostic(nil), m.Warner().Diagnostics()[before:]...)
}
