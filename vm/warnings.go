package vm

import (
	"fmt"
	"io"
)

// Diagnostic is a non-fatal warning. Compile-time warnings carry the
// position of the offending token; run-time ones have Line == 0.
type Diagnostic struct {
	Message string
	Token   string
	Offset  int // byte offset of Token in the compiled text
	Line    int // 1-based
	Column  int // 1-based
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d:(%s) %s", d.Line, d.Column, d.Token, d.Message)
}

// Warner prints each distinct warning once. Deduplication is by message
// text, so a warning raised at several positions is reported at the
// first one only.
type Warner struct {
	w     io.Writer
	seen  map[string]bool
	diags []Diagnostic
}

// NewWarner returns a Warner printing to w. A nil w only records.
func NewWarner(w io.Writer) *Warner {
	return &Warner{w: w, seen: make(map[string]bool)}
}

// Warn reports a run-time warning.
func (w *Warner) Warn(msg string) {
	w.Report(Diagnostic{Message: msg})
}

// Report records d and prints it unless its message was already seen.
// It returns whether d was new.
func (w *Warner) Report(d Diagnostic) bool {
	if w.seen[d.Message] {
		return false
	}
	w.seen[d.Message] = true
	w.diags = append(w.diags, d)
	if w.w != nil {
		fmt.Fprintf(w.w, "Warning: %s\n", d)
	}
	return true
}

// Diagnostics returns every distinct warning reported so far.
func (w *Warner) Diagnostics() []Diagnostic {
	return w.diags
}
