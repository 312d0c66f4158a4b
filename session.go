package mdpreview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/store"
)

// ContentKey is the store key holding the latest document source.
const ContentKey = "markdown-content"

// DefaultHistoryCapacity bounds the undo history of a Session.
const DefaultHistoryCapacity = 200

// ErrStateNotFound is returned by a Store that has no value for a key.
var ErrStateNotFound = store.ErrNotFound

// Store persists the session content between runs. Get must return an
// error matching ErrStateNotFound when the key has no value.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// NewFileStore returns a Store keeping one file per key in dir.
func NewFileStore(dir string) (Store, error) {
	return store.NewFileStore(dir)
}

// NewMemoryStore returns a Store that lives only as long as the process.
func NewMemoryStore() Store {
	return store.NewMemoryStore()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistoryCapacity bounds the number of undo snapshots. Zero or less
// means unbounded.
func WithHistoryCapacity(n int) SessionOption {
	return func(s *Session) {
		s.history = NewHistory(n)
	}
}

// WithSessionLogger sets the session logger. It defaults to the renderer's.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the editor core: one document with its rendered preview,
// undo history and persisted copy. Every change re-renders; Edit defers
// the history snapshot until Flush so keystrokes can be debounced.
// Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	renderer *Renderer
	store    Store
	history  *History
	logger   *slog.Logger

	content string
	preview string
	stats   Stats
}

// NewSession creates an empty session. Call Load to restore content.
func NewSession(r *Renderer, st Store, opts ...SessionOption) *Session {
	s := &Session{
		renderer: r,
		store:    st,
		history:  NewHistory(DefaultHistoryCapacity),
		logger:   r.logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the saved content, or seeds the welcome document when
// nothing (or an empty document) was saved. History restarts from the
// loaded content.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.store.Get(ContentKey)
	switch {
	case errors.Is(err, ErrStateNotFound):
		content = ""
	case err != nil:
		return fmt.Errorf("%w: %v", ErrStateLoad, err)
	}

	if content == "" {
		welcome, err := s.renderer.assets.Load(assets.KindDocument, assets.DefaultWelcomeDocument)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStateLoad, err)
		}
		content = welcome
	}

	s.history = NewHistory(s.history.capacity)
	s.history.Push(content)
	return s.apply(ctx, content)
}

// SetContent replaces the document, renders it, saves it and records a
// history snapshot. A save failure is returned after the preview has been
// updated.
func (s *Session) SetContent(ctx context.Context, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(ctx, content)
	s.history.Push(content)
	return err
}

// Edit replaces the document, renders it and saves it, without a history
// snapshot. Call Flush once edits settle.
func (s *Session) Edit(ctx context.Context, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apply(ctx, content)
}

// Flush records the current content in the history. Returns false when it
// equals the latest snapshot.
func (s *Session) Flush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Push(s.content)
}

// Undo steps back one snapshot. Unflushed edits are committed first so
// they can be redone. Returns false when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Push(s.content)
	content, ok := s.history.Undo()
	if !ok {
		return false, nil
	}
	return true, s.apply(ctx, content)
}

// Redo steps forward one snapshot. Returns false when there is nothing
// to redo.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.history.Redo()
	if !ok {
		return false, nil
	}
	return true, s.apply(ctx, content)
}

// CanUndo reports whether Undo would change the document.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.history.Current(); ok && current != s.content {
		return true
	}
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the document.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.CanRedo()
}

// ReplaceAll replaces every literal occurrence of query in the document
// as one history step and returns the count.
func (s *Session) ReplaceAll(ctx context.Context, query, repl string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, n := ReplaceAll(s.content, query, repl)
	if n == 0 {
		return 0, nil
	}
	s.history.Push(s.content)
	err := s.apply(ctx, out)
	s.history.Push(out)
	return n, err
}

// Import replaces the document with r decoded from encoding.
func (s *Session) Import(ctx context.Context, r io.Reader, encoding string) error {
	content, err := Import(r, encoding)
	if err != nil {
		return err
	}
	return s.SetContent(ctx, content)
}

// Export writes the document as UTF-8.
func (s *Session) Export(w io.Writer) error {
	return Export(w, s.Content())
}

// Content returns the document source.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Preview returns the rendered HTML fragment of the document.
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Stats returns the word statistics of the document.
func (s *Session) Stats() WordStats {
	return Count(s.Content())
}

// RenderStats returns the statistics of the latest render.
func (s *Session) RenderStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// apply renders and saves content. Callers hold s.mu.
func (s *Session) apply(ctx context.Context, content string) error {
	s.content = content

	result, err := s.renderer.Convert(ctx, Input{Markdown: content})
	if err != nil {
		s.logger.Error("render failed", "error", err)
		s.preview = s.renderer.fallback(content)
		s.stats = Stats{}
	} else {
		s.preview = result.HTML
		s.stats = result.Stats
	}

	if err := s.store.Set(ContentKey, content); err != nil {
		return fmt.Errorf("%w: %v", ErrStateSave, err)
	}
	return nil
}
