// Package fswatch abstracts the filesystem change notification source behind
// a small Source interface, the way the teacher's internal/arena wraps Go's
// experimental arena package behind a minimal, stable surface. Here the thing
// being hidden is github.com/fsnotify/fsnotify: fsnotify watches are
// per-directory and non-recursive, so this package is also where the
// recursive-walk-and-add bookkeeping the spec requires actually lives,
// keeping pkg/sync.go free of filesystem plumbing.
//
// ⛔ internal: not part of the public API, may change without notice.
//
// © 2025 hotcache authors. MIT License.
package fswatch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Op is the adapter's own bitmask for the kinds of filesystem operation an
// Event can carry, decoupled from fsnotify.Op so a different backend could be
// swapped in without pkg/sync.go changing.
type Op uint8

const (
	OpWrite Op = 1 << iota
	OpCreate
	OpRemove
	OpRename
	OpChmod
)

func (o Op) Has(bit Op) bool { return o&bit != 0 }

// Event is one filesystem notification: a path and the operation observed on
// it. A single user save can legally produce several Events for the same
// path; the synchronizer's debounce absorbs that.
type Event struct {
	Path string
	Op   Op
}

// Source is the event source adapter contract: a channel of Events, a
// channel of background errors (e.g. a watch add failing), and a way to tear
// it down. The production implementation is backed by fsnotify; tests use
// Manual, a plain channel-fed stand-in.
type Source interface {
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// fsnotifyOpToOp translates fsnotify's bitmask to ours.
func fsnotifyOpToOp(op fsnotify.Op) Op {
	var out Op
	if op&fsnotify.Write != 0 {
		out |= OpWrite
	}
	if op&fsnotify.Create != 0 {
		out |= OpCreate
	}
	if op&fsnotify.Remove != 0 {
		out |= OpRemove
	}
	if op&fsnotify.Rename != 0 {
		out |= OpRename
	}
	if op&fsnotify.Chmod != 0 {
		out |= OpChmod
	}
	return out
}

// recursive wraps *fsnotify.Watcher and adds every existing subdirectory of
// root at construction, then keeps watching new directories as they're
// created, since fsnotify only watches the directories it's explicitly told
// about.
type recursive struct {
	w      *fsnotify.Watcher
	events chan Event
	errors chan error
	done   chan struct{}
}

// NewRecursive constructs a Source rooted at root, watching root and every
// subdirectory beneath it (recursive, matching the event source adapter
// contract in the spec). root must already be an existing, canonical
// directory; NewRecursive does not create or validate it.
func NewRecursive(root string) (Source, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fswatch: create watcher: %w", err)
	}

	r := &recursive{
		w:      w,
		events: make(chan Event, 256),
		errors: make(chan error, 16),
		done:   make(chan struct{}),
	}

	if err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return r.w.Add(path)
		}
		return nil
	}); err != nil {
		w.Close()
		return nil, fmt.Errorf("fswatch: watch %s: %w", root, err)
	}

	go r.pump()
	return r, nil
}

func (r *recursive) pump() {
	for {
		select {
		case ev, ok := <-r.w.Events:
			if !ok {
				close(r.events)
				return
			}
			op := fsnotifyOpToOp(ev.Op)
			if op.Has(OpCreate) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// Best effort: a racing removal before Add just means we
					// never see events from a directory that's already gone.
					_ = r.w.Add(ev.Name)
				}
			}
			select {
			case r.events <- Event{Path: ev.Name, Op: op}:
			case <-r.done:
				return
			}
		case err, ok := <-r.w.Errors:
			if !ok {
				return
			}
			select {
			case r.errors <- err:
			case <-r.done:
				return
			default:
				// Error channel full and nobody's draining it; drop rather
				// than block the watcher goroutine.
			}
		case <-r.done:
			return
		}
	}
}

func (r *recursive) Events() <-chan Event { return r.events }
func (r *recursive) Errors() <-chan error { return r.errors }

func (r *recursive) Close() error {
	close(r.done)
	return r.w.Close()
}
