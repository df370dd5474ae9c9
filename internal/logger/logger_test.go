package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithoutPathIsNop(t *testing.T) {
	l, err := New("", "debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if l.Core().Enabled(-1) {
		t.Fatalf("nop logger should not enable any level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stepgoal.log")
	l, err := New(path, "debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Debug("edit applied")
	Close(l)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "edit applied") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepgoal.log")
	if _, err := New(path, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
