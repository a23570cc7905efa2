package hotcache

import "testing"

func TestHandleBorrowReturnsCurrentValue(t *testing.T) {
	h := NewHandle(1)
	if got := h.Borrow(); got != 1 {
		t.Fatalf("Borrow() = %d, want 1", got)
	}
	h.set(2)
	if got := h.Borrow(); got != 2 {
		t.Fatalf("Borrow() after set = %d, want 2", got)
	}
}

// TestHandleStabilityAcrossSet verifies the property that justifies the
// whole design: the pointer identity of the Handle never changes, only the
// value it points to. A caller that stashed *Handle[T] once keeps seeing
// fresh values forever.
func TestHandleStabilityAcrossSet(t *testing.T) {
	h := NewHandle("v1")
	ref := h
	h.set("v2")
	if got := ref.Borrow(); got != "v2" {
		t.Fatalf("a handle captured before set() must observe the new value, got %q", got)
	}
}

func TestHandleLoadReturnsPointerToCurrentValue(t *testing.T) {
	h := NewHandle(10)
	p1 := h.Load()
	h.set(20)
	p2 := h.Load()
	if *p1 == *p2 {
		t.Fatalf("Load() before and after set() should observe different snapshots")
	}
	if *p2 != 20 {
		t.Fatalf("Load() after set() = %d, want 20", *p2)
	}
}
