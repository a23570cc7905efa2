package hotcache

// sync.go implements the Synchronizer: the debounced bridge between
// filesystem write events and actual resource reloads. It plays the role the
// teacher's shard.rotate()/genring.Rotate() pair played for time-bounded
// arena eviction, but debounces toward a reload instead of toward freeing
// memory — there's no eviction in this design (see DESIGN.md).
//
// © 2025 hotcache authors. MIT License.

import (
	"time"

	"go.uber.org/zap"

	"github.com/voskan/hotcache/internal/fswatch"
)

// synchronizer owns the dirty-set and the event source, and performs the two
// phases described in the spec: dequeue, then reload whatever has been quiet
// for at least debounce.
type synchronizer[C any] struct {
	source   fswatch.Source
	debounce time.Duration
	dirty    map[DepKey]time.Time
	logger   *zap.Logger
	metrics  metricsSink
}

func newSynchronizer[C any](source fswatch.Source, debounce time.Duration, logger *zap.Logger, metrics metricsSink) *synchronizer[C] {
	return &synchronizer[C]{
		source:   source,
		debounce: debounce,
		dirty:    make(map[DepKey]time.Time),
		logger:   logger,
		metrics:  metrics,
	}
}

// sync drains the event source and reloads whatever has crossed the debounce
// threshold. Not reentrant — the caller (Store.Sync) must not call it from
// more than one goroutine at a time.
func (sy *synchronizer[C]) sync(storage *Storage[C], ctx *C) {
	sy.dequeue(storage)
	sy.reloadDirty(storage, ctx)
	sy.metrics.setDirtyQueueDepth(len(sy.dirty))
}

// dequeue drains every currently buffered event without blocking. Only write
// events for paths at least one metadata entry cares about move the needle;
// everything else — creates, removes, events for untracked paths — is
// observed and discarded, exactly as the spec requires ("event for a path
// with no metadata is ignored").
func (sy *synchronizer[C]) dequeue(storage *Storage[C]) {
	for {
		select {
		case ev, ok := <-sy.source.Events():
			if !ok {
				return
			}
			sy.metrics.incFSEvent()
			if !ev.Op.Has(fswatch.OpWrite) {
				continue
			}
			dep := DepKey{kind: depKeyPath, value: ev.Path}
			if !storage.knowsDep(dep) {
				continue
			}
			// Latest observed write wins: debounce counts from the last
			// write in a burst, not the first.
			sy.dirty[dep] = time.Now()
		case err, ok := <-sy.source.Errors():
			if !ok {
				continue
			}
			sy.logger.Warn("hotcache: event source error", zap.Error(err))
		default:
			return
		}
	}
}

// reloadDirty reloads every dirty DepKey whose debounce has elapsed, and
// propagates one level to its dependents.
func (sy *synchronizer[C]) reloadDirty(storage *Storage[C], ctx *C) {
	now := time.Now()
	for dep, dirtyAt := range sy.dirty {
		if now.Sub(dirtyAt) < sy.debounce {
			continue
		}
		sy.reloadDep(storage, ctx, dep)
		delete(sy.dirty, dep)
	}
}

// reloadDep reloads every cacheKey registered under dep (a DepKey may back
// more than one resource type — see the data model) and then, for each one
// that reloaded successfully, reloads its direct dependents. Dependent
// reload errors are logged and swallowed; this is a documented limitation
// carried over from the design this library follows, not an oversight.
func (sy *synchronizer[C]) reloadDep(storage *Storage[C], ctx *C, dep DepKey) {
	for _, ck := range storage.entriesForDep(dep) {
		meta, ok := storage.metadata[ck]
		if !ok {
			continue
		}
		delete(storage.metadata, ck)

		err := meta.reload(storage, ctx)
		if err != nil {
			sy.metrics.incReloadError()
			sy.logger.Warn("hotcache: reload failed",
				zap.String("dep", ck.dep.String()),
				zap.Error(err),
			)
		} else {
			sy.metrics.incReload()
			sy.propagate(storage, ctx, dep)
		}

		storage.metadata[ck] = meta
	}
}

// propagate reloads the direct dependents of dep, one level deep, matching
// the spec's "dependents are reloaded after their dependency, in the same
// call" guarantee.
func (sy *synchronizer[C]) propagate(storage *Storage[C], ctx *C, dep DepKey) {
	dependents, ok := storage.deps[dep]
	if !ok {
		return
	}
	for _, ck := range dependents {
		meta, ok := storage.metadata[ck]
		if !ok {
			continue
		}
		delete(storage.metadata, ck)

		if err := meta.reload(storage, ctx); err != nil {
			sy.metrics.incReloadError()
			sy.logger.Warn("hotcache: dependent reload failed",
				zap.String("dep", ck.dep.String()),
				zap.Error(err),
			)
		} else {
			sy.metrics.incReload()
		}

		storage.metadata[ck] = meta
	}
}
