package vm

import (
	"bytes"
	"testing"
)

func TestWarnerDeduplicates(t *testing.T) {
	var buf bytes.Buffer
	w := NewWarner(&buf)

	if !w.Report(Diagnostic{Message: "first"}) {
		t.Error("first report should be new")
	}
	w.Report(Diagnostic{Message: "first", Token: "x", Line: 2, Column: 3})
	w.Report(Diagnostic{Message: "second", Token: "}", Line: 1, Column: 4})

	want := "Warning: first\nWarning: 1:4:(}) second\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if n := len(w.Diagnostics()); n != 2 {
		t.Errorf("diagnostics = %d, want 2", n)
	}
}

func TestWarnerNilWriterRecords(t *testing.T) {
	w := NewWarner(nil)
	w.Warn("quiet")
	if n := len(w.Diagnostics()); n != 1 {
		t.Errorf("diagnostics = %d, want 1", n)
	}
}
