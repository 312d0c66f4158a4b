package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestValidateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		wantErr bool
	}{
		{"markdown-content", false},
		{"draft_2", false},
		{"", true},
		{"../escape", true},
		{"a/b", true},
		{".hidden", true},
		{"-leading", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			err := ValidateKey(tt.key)
			if tt.wantErr && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateKey(%q) unexpected error: %v", tt.key, err)
			}
		})
	}
}

func TestStores(t *testing.T) {
	t.Parallel()

	newStores := map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}
			return s
		},
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
	}

	for name, newStore := range newStores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := newStore(t)

			if _, err := s.Get("markdown-content"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
			}

			for _, value := range []string{"# first", "", "# 第二 $x$"} {
				if err := s.Set("markdown-content", value); err != nil {
					t.Fatalf("Set(%q) error = %v", value, err)
				}
				got, err := s.Get("markdown-content")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if got != value {
					t.Errorf("Get() = %q, want %q", got, value)
				}
			}

			if err := s.Set("../x", "v"); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Set() with bad key error = %v, want ErrInvalidKey", err)
			}
			if _, err := s.Get("../x"); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Get() with bad key error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestFileStore_Persists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := first.Set("markdown-content", "kept"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	got, err := second.Get("markdown-content")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "kept" {
		t.Errorf("Get() = %q, want %q", got, "kept")
	}
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	t.Parallel()

	if _, err := NewFileStore(""); !errors.Is(err, ErrStateDir) {
		t.Errorf("NewFileStore(\"\") error = %v, want ErrStateDir", err)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Set("k", "v")
			_, _ = s.Get("k")
		}()
	}
	wg.Wait()

	if got, _ := s.Get("k"); got != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}
}
