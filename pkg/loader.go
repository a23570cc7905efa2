package hotcache

// loader.go defines the capability contract resource types implement: how to
// produce a value the first time (Load) and, optionally, how to refresh it in
// place once the filesystem says it changed (Reload).
//
// The teacher's LoaderFunc[K,V] is a single function because arena-cache's
// cache is homogeneous in V per instance, and de-duplicates concurrent misses
// with golang.org/x/sync/singleflight (its loaderGroup). Storage here is
// heterogeneous — one Storage[C] serves many resource types at once — so Go
// generics can't give dispatch-by-type the way the original Load trait did;
// the caller supplies a Loader explicitly at each Get/GetBy call site
// instead, which in practice means one call site per resource type.
//
// singleflight itself is deliberately NOT reused here: Storage assumes a
// single-owner goroutine, and a loader that recursively calls Get for the key
// it is itself loading is a documented caller bug that must surface as a
// stack overflow, never a deadlock. singleflight.Group.Do reentering its own
// in-flight key from the same goroutine deadlocks on its own internal
// sync.WaitGroup, which would turn that bug into exactly the failure mode the
// design forbids. golang.org/x/sync is still listed in go.mod, but no package
// in this repository imports it.
//
// © 2025 hotcache authors. MIT License.

// LoadFunc produces a fresh T from key, using storage to pull in any
// dependencies. The returned []DepKey lists the dependencies whose future
// reload should also trigger a reload of this resource; pass nil if there are
// none. LoadFunc must not call Cache-mutating methods other than Get/GetBy on
// the provided Storage — the same restriction the teacher documents for
// LoaderFunc.
type LoadFunc[T, C any] func(key Key, storage *Storage[C], ctx *C) (T, []DepKey, error)

// ReloadFunc refreshes an existing T in response to a filesystem change. The
// default behaviour (used when a Loader's Reload field is nil) is to call
// Load again and discard its declared dependencies — the dependency list from
// the first Load remains authoritative for the resource's lifetime; see
// DESIGN.md for why redeclaring dependencies on reload isn't supported.
type ReloadFunc[T, C any] func(current T, key Key, storage *Storage[C], ctx *C) (T, error)

// Loader bundles the Load/Reload pair for one resource type. Method
// parameters (the M type argument on GetBy/GetProxiedBy) let the same T be
// loaded in more than one way while still caching each method's result under
// its own cacheKey.
type Loader[T, C any] struct {
	Load   LoadFunc[T, C]
	Reload ReloadFunc[T, C]
}

// defaultReload synthesizes a Reload from Load when the caller didn't supply
// one: it discards the dependency list, matching the default reload
// implementation this library follows.
func defaultReload[T, C any](load LoadFunc[T, C]) ReloadFunc[T, C] {
	return func(_ T, key Key, storage *Storage[C], ctx *C) (T, error) {
		v, _, err := load(key, storage, ctx)
		return v, err
	}
}

func (l Loader[T, C]) reloadFunc() ReloadFunc[T, C] {
	if l.Reload != nil {
		return l.Reload
	}
	return defaultReload(l.Load)
}
