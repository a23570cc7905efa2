package hotcache

// handle.go implements Handle[T], the shared container callers hold onto
// indefinitely. The design goal is identical to the teacher's shard entries:
// give callers a stable reference whose *contents* can be swapped without
// ever replacing the container itself, and make reads lock-free since they
// vastly outnumber writes (a reload happens at most once per debounce window;
// a Borrow can happen every frame).
//
// Where arena-cache used sync/atomic on a fixed-layout entry struct plus an
// unsafe.Pointer into arena memory to get that lock-free read, Handle[T] uses
// atomic.Pointer[T] directly: generics remove the need for the unsafe dance
// since the compiler already knows the concrete element size.
//
// © 2025 hotcache authors. MIT License.

import "sync/atomic"

// Handle is a shared, mutably-rebindable reference to a single cached
// resource value. All copies of a *Handle[T] observe the same underlying
// slot; Borrow always returns the most recently committed value.
//
// The only code that may call set is the reload closure built by inject; a
// Handle itself does not expose a way to mutate its own contents, so callers
// cannot accidentally desynchronize the cache from the value they're holding.
type Handle[T any] struct {
	slot atomic.Pointer[T]
}

// NewHandle wraps v in a freshly allocated Handle.
func NewHandle[T any](v T) *Handle[T] {
	h := &Handle[T]{}
	h.slot.Store(&v)
	return h
}

// Borrow returns the current value by copy. Safe to call concurrently with a
// reload happening on another goroutine, at the cost of observing either the
// old or the new value depending on timing — never a torn read.
func (h *Handle[T]) Borrow() T {
	return *h.slot.Load()
}

// Load returns the current value's pointer directly, for callers of large T
// who want to avoid the copy Borrow performs. The pointer itself must not be
// retained past the next reload: a fresh pointer is installed on every set,
// the old one is simply abandoned to the garbage collector.
func (h *Handle[T]) Load() *T {
	return h.slot.Load()
}

// set installs v as the new current value. Unexported: only the reload
// closure captured in inject may call this, which is what keeps "every
// caller sees the new value after sync()" true without requiring callers to
// coordinate among themselves.
func (h *Handle[T]) set(v T) {
	h.slot.Store(&v)
}
