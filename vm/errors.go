package vm

import (
	"errors"
	"fmt"
)

// Sentinel causes for fatal errors. Check them with errors.Is.
var (
	ErrEmptyAssign  = errors.New("cannot assign empty stack")
	ErrDivideByZero = errors.New("divided by 0")
	ErrBadOperand   = errors.New("bad operand")
	ErrNoValue      = errors.New("operand missing")
	ErrNoCompiler   = errors.New("no compiler installed")
)

// FatalError terminates a run. It is raised with panic inside the
// machine and turned back into an error by Machine.Execute.
type FatalError struct {
	Err error  // one of the sentinels above
	Msg string // detail, may be empty
}

func (e *FatalError) Error() string {
	if e.Msg == "" || e.Msg == e.Err.Error() {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Msg
}

func (e *FatalError) Unwrap() error { return e.Err }

func fatalf(err error, format string, args ...any) *FatalError {
	return &FatalError{Err: err, Msg: fmt.Sprintf(format, args...)}
}

// badOperand reports an operator applied to a type it has no meaning for.
func badOperand(op string, v Value) *FatalError {
	if v == nil {
		return fatalf(ErrNoValue, "%s", op)
	}
	return fatalf(ErrBadOperand, "%s is not defined for %s", op, v.Rank())
}
