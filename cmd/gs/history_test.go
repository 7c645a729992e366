package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func openTestHistory(t *testing.T, limit int) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "sub", "history.db"), limit)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_AddRecent(t *testing.T) {
	h := openTestHistory(t, 0)
	for _, line := range []string{"1 2+", "1 2+", "[1 2]", "~"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q): %v", line, err)
		}
	}

	got, err := h.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "|") != "1 2+|[1 2]|~" {
		t.Errorf("Recent = %q, want repeats collapsed, oldest first", got)
	}

	got, _ = h.Recent(2)
	if strings.Join(got, "|") != "[1 2]|~" {
		t.Errorf("Recent(2) = %q, want the two newest", got)
	}
}

func TestHistory_Limit(t *testing.T) {
	h := openTestHistory(t, 3)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		if err := h.Add(line); err != nil {
			t.Fatal(err)
		}
	}
	got, err := h.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "") != "cde" {
		t.Errorf("Recent = %q, want [c d e]", got)
	}
}

func TestHistory_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	h.Add("kept")
	h.Close()

	h, err = OpenHistory(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	got, _ := h.Recent(1)
	if len(got) != 1 || got[0] != "kept" {
		t.Errorf("Recent after reopen = %q, want [kept]", got)
	}
}
