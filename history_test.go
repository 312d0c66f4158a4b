package mdpreview

import "testing"

func TestHistory_PushUndoRedo(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history should not undo or redo")
	}
	if _, ok := h.Current(); ok {
		t.Fatal("Current() on empty history should report !ok")
	}

	for _, s := range []string{"a", "b", "c"} {
		if !h.Push(s) {
			t.Fatalf("Push(%q) = false, want true", s)
		}
	}
	if h.Push("c") {
		t.Error("Push() of the current snapshot = true, want false")
	}
	if got := h.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	if got, ok := h.Undo(); !ok || got != "b" {
		t.Errorf("Undo() = %q, %v, want \"b\", true", got, ok)
	}
	if got, ok := h.Undo(); !ok || got != "a" {
		t.Errorf("Undo() = %q, %v, want \"a\", true", got, ok)
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo() past the oldest snapshot should report !ok")
	}
	if got, ok := h.Redo(); !ok || got != "b" {
		t.Errorf("Redo() = %q, %v, want \"b\", true", got, ok)
	}
	if !h.CanRedo() {
		t.Error("CanRedo() = false, want true")
	}
}

func TestHistory_PushDiscardsRedoTail(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)
	h.Push("a")
	h.Push("b")
	h.Push("c")
	h.Undo()
	h.Undo()
	h.Push("x")

	if h.CanRedo() {
		t.Error("CanRedo() after push = true, want false")
	}
	if got := h.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got, _ := h.Undo(); got != "a" {
		t.Errorf("Undo() = %q, want \"a\"", got)
	}
}

func TestHistory_Capacity(t *testing.T) {
	t.Parallel()

	h := NewHistory(3)
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		h.Push(s)
	}

	if got := h.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got, _ := h.Current(); got != "5" {
		t.Errorf("Current() = %q, want \"5\"", got)
	}
	h.Undo()
	if got, ok := h.Undo(); !ok || got != "3" {
		t.Errorf("Undo() = %q, %v, want \"3\", true", got, ok)
	}
	if h.CanUndo() {
		t.Error("CanUndo() at oldest kept snapshot = true, want false")
	}
}

func TestNewHistory_NegativeCapacity(t *testing.T) {
	t.Parallel()

	h := NewHistory(-5)
	for i := 0; i < 10; i++ {
		h.Push(string(rune('a' + i)))
	}
	if got := h.Len(); got != 10 {
		t.Errorf("Len() = %d, want 10 (unbounded)", got)
	}
}
