package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte("\nTwo\nSecond chapter.\n\nOne\n"), 0o644); err != nil {
		t.Fatalf("failed to write text: %v", err)
	}

	s, err := loadSession(path)
	if err != nil {
		t.Fatalf("loadSession() error = %v", err)
	}
	if s.Total() != 3 {
		t.Errorf("Total() = %d, want 3", s.Total())
	}
	if got := string(s.Target()); got != "Two" {
		t.Errorf("Target() = %q, want %q", got, "Two")
	}
	if s.Name() != path {
		t.Errorf("Name() = %q, want %q", s.Name(), path)
	}
}

func TestLoadSession_MissingFile(t *testing.T) {
	_, err := loadSession(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("loadSession() error = %v, want fs.ErrNotExist", err)
	}
}

func TestRootCmd_RequiresOneFile(t *testing.T) {
	for _, args := range [][]string{{}, {"a.txt", "b.txt"}} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		if err := cmd.Execute(); err == nil {
			t.Errorf("Execute(%q) succeeded, want argument error", args)
		}
	}
}
