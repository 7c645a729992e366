package server

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/chazu/golfvm/compiler"
	"github.com/chazu/golfvm/vm"
)

var errWorkerStopped = errors.New("worker stopped")

// vmRequest represents a unit of work to be executed on the worker goroutine.
type vmRequest struct {
	fn   func(*vm.Machine) any
	done chan vmResult
}

// vmResult holds the return value from a machine operation.
type vmResult struct {
	value any
	err   error
}

// VMWorker serializes all machine access through a single goroutine.
// A Machine is not safe for concurrent use and the LSP handlers run
// on their own goroutines.
type VMWorker struct {
	m        *vm.Machine
	requests chan vmRequest
	quit     chan struct{}
	stopOnce sync.Once
}

// NewVMWorker creates a VMWorker around m and starts the processing
// goroutine.
func NewVMWorker(m *vm.Machine) *VMWorker {
	w := &VMWorker{
		m:        m,
		requests: make(chan vmRequest, 64),
		quit:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// NewReferenceMachine returns a machine with the compiler installed and
// the prelude loaded, printing nothing.
func NewReferenceMachine() (*vm.Machine, error) {
	m := newScratchMachine()
	if err := m.LoadPrelude(); err != nil {
		return nil, fmt.Errorf("loading prelude: %w", err)
	}
	return m, nil
}

// newScratchMachine returns a silent machine for one analysis. Compiling
// binds literal slots and warnings are reported once per machine, so
// every document check starts from a fresh one.
func newScratchMachine() *vm.Machine {
	m := vm.NewMachine()
	compiler.Install(m)
	m.SetOutput(io.Discard)
	m.SetDiagnostics(nil)
	return m
}

// loop processes requests sequentially on a dedicated goroutine.
func (w *VMWorker) loop() {
	for {
		select {
		case req := <-w.requests:
			result := w.execute(req.fn)
			req.done <- result
		case <-w.quit:
			return
		}
	}
}

// execute runs a function on the machine, recovering from panics.
func (w *VMWorker) execute(fn func(*vm.Machine) any) vmResult {
	var result vmResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.err = fmt.Errorf("%v", r)
			}
		}()
		result.value = fn(w.m)
	}()
	return result
}

// Do submits a function for execution on the worker goroutine and blocks
// until it completes. Returns the result and any error (including panics).
func (w *VMWorker) Do(fn func(*vm.Machine) any) (any, error) {
	req := vmRequest{
		fn:   fn,
		done: make(chan vmResult, 1),
	}
	select {
	case <-w.quit:
		return nil, errWorkerStopped
	default:
	}
	select {
	case w.requests <- req:
	case <-w.quit:
		return nil, errWorkerStopped
	}
	select {
	case result := <-req.done:
		return result.value, result.err
	case <-w.quit:
		return nil, errWorkerStopped
	}
}

// Stop shuts down the worker goroutine. It is safe to call more than once.
// Concurrent callers are fine.
func (w *VMWorker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}
