package main

// Notes:
// - This file contains test helpers shared across CLI tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fixedNow is the clock of test environments.
var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

// testEnv returns an Environment reading stdin and capturing output.
func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:        func() time.Time { return fixedNow },
		Stdout:     &stdout,
		Stderr:     &stderr,
		Stdin:      strings.NewReader(stdin),
		IsTerminal: func(io.Writer) bool { return false },
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name with content, including parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
