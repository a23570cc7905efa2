// Package bench holds reproducible micro-benchmarks for hotcache. Run via:
//
//	go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// The shapes measured mirror what mattered for the teacher's sharded cache —
// hit cost, miss/load cost, concurrent reads — adapted to what's actually hot
// here: Get on an already-cached resource, Get triggering a Load, and an idle
// Sync pass (the cost paid once per tick even when nothing changed on disk).
//
// © 2025 hotcache authors. MIT License.
package bench

import (
	"fmt"
	"testing"

	hotcache "github.com/voskan/hotcache/pkg"
)

// benchCtx is an empty loader context; these benchmarks don't exercise
// cross-resource dependencies.
type benchCtx struct{}

func newBenchStore(b *testing.B) *hotcache.Store[benchCtx] {
	b.Helper()
	st, err := hotcache.New[benchCtx](hotcache.NewStoreOpt().WithRoot(b.TempDir()))
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	b.Cleanup(func() { _ = st.Close() })
	return st
}

func intLoader() hotcache.Loader[int, benchCtx] {
	return hotcache.Loader[int, benchCtx]{
		Load: func(_ hotcache.Key, _ *hotcache.Storage[benchCtx], _ *benchCtx) (int, []hotcache.DepKey, error) {
			return 42, nil, nil
		},
	}
}

// BenchmarkGetHit measures the cost of a Get call that's already cached: a
// map lookup, a type assertion and a metrics increment, no Loader call.
func BenchmarkGetHit(b *testing.B) {
	st := newBenchStore(b)
	ldr := intLoader()
	key := hotcache.NewLogicalKey("warm")
	ctx := &benchCtx{}
	if _, err := hotcache.Get(st.Storage, key, ldr, ctx); err != nil {
		b.Fatalf("warm-up Get: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := hotcache.Get(st.Storage, key, ldr, ctx); err != nil {
			b.Fatalf("Get: %v", err)
		}
	}
}

// BenchmarkGetHitParallel measures concurrent cache-hit reads. This is safe
// without external locking only because every goroutine hits — nothing here
// writes to Storage's maps concurrently; a workload with real misses in
// flight needs a single synchronization goroutine, per the concurrency
// model.
func BenchmarkGetHitParallel(b *testing.B) {
	st := newBenchStore(b)
	ldr := intLoader()
	key := hotcache.NewLogicalKey("warm")
	if _, err := hotcache.Get(st.Storage, key, ldr, &benchCtx{}); err != nil {
		b.Fatalf("warm-up Get: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := &benchCtx{}
		for pb.Next() {
			if _, err := hotcache.Get(st.Storage, key, ldr, ctx); err != nil {
				b.Fatalf("Get: %v", err)
			}
		}
	})
}

// BenchmarkGetMiss measures Get when every call is a fresh LogicalKey: Load
// plus inject, the cost paid once per resource over its whole lifetime.
func BenchmarkGetMiss(b *testing.B) {
	st := newBenchStore(b)
	ldr := intLoader()
	ctx := &benchCtx{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := hotcache.NewLogicalKey(fmt.Sprintf("k-%d", i))
		if _, err := hotcache.Get(st.Storage, key, ldr, ctx); err != nil {
			b.Fatalf("Get: %v", err)
		}
	}
}

// BenchmarkSyncIdle measures the cost of a Sync call with nothing pending:
// draining an empty event channel and walking an empty dirty set. This is
// the steady-state cost of polling on a ticker.
func BenchmarkSyncIdle(b *testing.B) {
	st := newBenchStore(b)
	ctx := &benchCtx{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st.Sync(ctx)
	}
}
