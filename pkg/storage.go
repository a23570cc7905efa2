package hotcache

// storage.go is the heart of hotcache: it owns the heterogeneous cache, the
// per-resource metadata table and the dependency graph, and implements the
// load-on-miss / inject protocol. It plays the role the teacher's cache.go
// and shard.go played for arena-cache's sharded CLOCK-Pro cache, but the
// shape is different on purpose:
//
//   - arena-cache shards a *homogeneous* Cache[K,V] across N locks to cut
//     contention on a hot concurrent path. hotcache assumes a single-owner
//     synchronization goroutine (see Synchronizer in sync.go), so there is
//     nothing to shard and no lock to take on the hot path at all — Storage's
//     maps are plain, unsynchronized Go maps, exactly as bold an assumption
//     as arena-cache's lock-free atomic reads, just resolved at a different
//     layer.
//   - arena-cache's cache is keyed on a single (K) per instance because V is
//     fixed at construction. hotcache serves many resource types out of one
//     Storage, so the cache key is the triple (DepKey, reflect.Type[T],
//     reflect.Type[M]) — cacheKey below.
//
// © 2025 hotcache authors. MIT License.

import (
	"reflect"
)

// cacheKey is the fully-qualified identity of one cached resource: its
// canonical DepKey, its Go type, and the load method tag that produced it.
// Two Get calls for the same DepKey but different T (or different M for the
// same T) are different resources and coexist — see the data model's
// resource-type-tag rule.
type cacheKey struct {
	dep    DepKey
	typ    reflect.Type
	method reflect.Type
}

// resMetadata is the per-resource bookkeeping record: everything needed to
// reload this one resource in place, without knowing its concrete T from the
// outside. reload captures the Handle, the canonical key and the Loader's
// Reload function by closure, which is how a heterogeneous map can still
// invoke a strongly-typed operation.
type resMetadata struct {
	key    cacheKey
	reload func(storage any, ctx any) error
}

// Storage owns the cache, the metadata table and the dependency graph for one
// Store. C is the context type threaded through every loader call; Storage
// never inspects it.
type Storage[C any] struct {
	root string

	cache    map[cacheKey]any       // cacheKey -> *Handle[T], type-erased
	metadata map[cacheKey]resMetadata
	deps     map[DepKey][]cacheKey // dependency DepKey -> dependent cacheKeys

	metrics metricsSink
}

func newStorage[C any](root string, metrics metricsSink) *Storage[C] {
	return &Storage[C]{
		root:     root,
		cache:    make(map[cacheKey]any),
		metadata: make(map[cacheKey]resMetadata),
		deps:     make(map[DepKey][]cacheKey),
		metrics:  metrics,
	}
}

// Root returns the canonical root this Storage resolves FSKeys against.
func (s *Storage[C]) Root() string { return s.root }

// entriesForDep returns every cacheKey currently registered under dep. A
// single DepKey can back more than one type at once (a path loaded both as
// raw bytes and as a parsed document, say), so a single filesystem write must
// be able to dirty all of them.
func (s *Storage[C]) entriesForDep(dep DepKey) []cacheKey {
	var keys []cacheKey
	for ck := range s.metadata {
		if ck.dep == dep {
			keys = append(keys, ck)
		}
	}
	return keys
}

// knowsDep reports whether at least one metadata entry is registered under
// dep — used by the synchronizer to ignore filesystem events for paths
// nothing in the store actually cares about.
func (s *Storage[C]) knowsDep(dep DepKey) bool {
	for ck := range s.metadata {
		if ck.dep == dep {
			return true
		}
	}
	return false
}

func typeFor[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Get loads or returns the cached resource for key using the default load
// method. Equivalent to GetBy with an unexported, callers-can't-collide
// method tag.
func Get[T any, C any](s *Storage[C], key Key, ldr Loader[T, C], ctx *C) (*Handle[T], error) {
	return GetBy[T, defaultMethod](s, key, ldr, ctx)
}

// defaultMethod is the zero-information method tag used by Get/GetProxied.
type defaultMethod struct{}

// GetBy loads or returns the cached resource for key using the named load
// method M. M only needs a stable reflect.Type identity — an empty struct
// type is the idiomatic choice, as with defaultMethod.
func GetBy[T, M any, C any](s *Storage[C], key Key, ldr Loader[T, C], ctx *C) (*Handle[T], error) {
	canon := key.Canonicalize(s.root)
	dep := canon.ToDepKey()
	ck := cacheKey{dep: dep, typ: typeFor[T](), method: typeFor[M]()}

	if existing, ok := s.cache[ck]; ok {
		s.metrics.incCacheHit()
		return existing.(*Handle[T]), nil
	}
	s.metrics.incCacheMiss()

	value, dependencies, err := ldr.Load(canon, s, ctx)
	if err != nil {
		return nil, &ResourceError{Err: err}
	}
	return inject[T, C](s, ck, canon, value, dependencies, ldr.reloadFunc())
}

// GetProxied behaves like Get, except that a failed load is recovered by
// injecting proxy() in place of the resource. The placeholder is a normal
// cached entry: once the underlying file appears or starts parsing
// correctly, a later Sync reloads it exactly like any other resource.
func GetProxied[T any, C any](s *Storage[C], key Key, ldr Loader[T, C], proxy func() T, ctx *C) (*Handle[T], error) {
	return GetProxiedBy[T, defaultMethod](s, key, ldr, proxy, ctx)
}

// GetProxiedBy is GetProxied with an explicit load method tag.
func GetProxiedBy[T, M any, C any](s *Storage[C], key Key, ldr Loader[T, C], proxy func() T, ctx *C) (*Handle[T], error) {
	h, err := GetBy[T, M](s, key, ldr, ctx)
	if err == nil {
		return h, nil
	}

	var resErr *ResourceError
	if !isResourceError(err, &resErr) {
		// A store error (e.g. *AlreadyRegisteredKeyError) is a caller bug, not a
		// missing resource: propagate it rather than silently masking it
		// with a proxy.
		return nil, err
	}

	canon := key.Canonicalize(s.root)
	dep := canon.ToDepKey()
	ck := cacheKey{dep: dep, typ: typeFor[T](), method: typeFor[M]()}
	return inject[T, C](s, ck, canon, proxy(), nil, ldr.reloadFunc())
}

func isResourceError(err error, target **ResourceError) bool {
	re, ok := err.(*ResourceError)
	if ok {
		*target = re
	}
	return ok
}

// inject registers a freshly loaded value under ck. It is the single place
// that enforces the at-most-one-resource-per-cacheKey invariant and builds
// the reload closure that the synchronizer will call back into later.
func inject[T any, C any](s *Storage[C], ck cacheKey, key Key, value T, deps []DepKey, reload ReloadFunc[T, C]) (*Handle[T], error) {
	if _, exists := s.metadata[ck]; exists {
		return nil, &AlreadyRegisteredKeyError{Dep: ck.dep}
	}

	h := NewHandle(value)

	meta := resMetadata{
		key: ck,
		reload: func(storage any, ctx any) error {
			st := storage.(*Storage[C])
			c := ctx.(*C)
			current := h.Borrow()
			next, err := reload(current, key, st, c)
			if err != nil {
				return err
			}
			h.set(next)
			return nil
		},
	}
	s.metadata[ck] = meta

	for _, d := range deps {
		canonDep := d.canonicalize(s.root)
		s.deps[canonDep] = append(s.deps[canonDep], ck)
	}

	s.cache[ck] = h
	s.metrics.setCacheSize(len(s.cache))
	return h, nil
}
