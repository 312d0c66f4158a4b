package mdpreview

import "sync"

// History is a linear undo stack of content snapshots with a cursor.
// Pushing after an undo discards the redo tail. It is safe for concurrent
// use.
type History struct {
	mu        sync.Mutex
	snapshots []string
	cursor    int // index of the current snapshot, -1 when empty
	capacity  int // 0 means unbounded
}

// NewHistory returns an empty history. A positive capacity bounds the
// number of snapshots kept; the oldest are dropped first.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{cursor: -1, capacity: capacity}
}

// Push records content as the newest snapshot. Content equal to the
// current snapshot is ignored. Returns true when a snapshot was added.
func (h *History) Push(content string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= 0 && h.snapshots[h.cursor] == content {
		return false
	}

	h.snapshots = append(h.snapshots[:h.cursor+1], content)
	if h.capacity > 0 && len(h.snapshots) > h.capacity {
		drop := len(h.snapshots) - h.capacity
		h.snapshots = append([]string(nil), h.snapshots[drop:]...)
	}
	h.cursor = len(h.snapshots) - 1
	return true
}

// Undo moves back one snapshot and returns it. ok is false at the oldest
// snapshot.
func (h *History) Undo() (content string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo moves forward one snapshot and returns it. ok is false at the
// newest snapshot.
func (h *History) Redo() (content string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 || h.cursor >= len(h.snapshots)-1 {
		return "", false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor >= 0 && h.cursor < len(h.snapshots)-1
}

// Len returns the number of snapshots kept.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots)
}

// Current returns the snapshot under the cursor.
func (h *History) Current() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 {
		return "", false
	}
	return h.snapshots[h.cursor], true
}
