package hotcache

// store.go is the public entry point: StoreOpt is the closed configuration
// struct for New — a single value carrying every knob, built up with fluent
// setters the same way the teacher's config.go accumulates its Option[K,V]
// list, except here the struct itself is the argument to New rather than a
// func(*config) option list. Store is the façade that owns a Storage[C], a
// synchronizer[C] and the underlying fswatch.Source for one watched root.
//
// © 2025 hotcache authors. MIT License.

import (
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/voskan/hotcache/internal/fswatch"
)

const defaultDebounce = 50 * time.Millisecond

// StoreOpt is the closed set of knobs New accepts: root, debounce, fs,
// logger and registry, and nothing else. NewStoreOpt seeds the defaults;
// chain the With* setters to change any of them, and the matching plain
// accessor to read one back.
type StoreOpt struct {
	root     string
	debounce time.Duration
	fs       afero.Fs
	logger   *zap.Logger
	registry *prometheus.Registry
}

// NewStoreOpt returns the default configuration: root ".", a 50ms debounce,
// the real OS filesystem, a no-op logger and metrics disabled.
func NewStoreOpt() StoreOpt {
	return StoreOpt{
		root:     ".",
		debounce: defaultDebounce,
		fs:       afero.NewOsFs(),
		logger:   zap.NewNop(),
	}
}

// WithRoot sets the directory New will watch. A relative root is resolved
// against the process's working directory during New.
func (o StoreOpt) WithRoot(root string) StoreOpt {
	o.root = root
	return o
}

// WithDebounce overrides the default 50ms debounce window used to coalesce
// bursts of filesystem writes before triggering a reload.
func (o StoreOpt) WithDebounce(d time.Duration) StoreOpt {
	if d > 0 {
		o.debounce = d
	}
	return o
}

// WithFS swaps the afero.Fs used to validate the store root, letting tests
// exercise New against an in-memory filesystem instead of the real one.
func (o StoreOpt) WithFS(fs afero.Fs) StoreOpt {
	if fs != nil {
		o.fs = fs
	}
	return o
}

// WithLogger plugs an external zap.Logger. The store only logs background
// events — event source errors, swallowed dependent-reload errors — never on
// the Get/GetBy hot path.
func (o StoreOpt) WithLogger(l *zap.Logger) StoreOpt {
	if l != nil {
		o.logger = l
	}
	return o
}

// WithMetrics enables Prometheus metrics collection on the given registry.
// Leaving it unset (the default) keeps the store on the zero-cost
// noopMetrics path.
func (o StoreOpt) WithMetrics(reg *prometheus.Registry) StoreOpt {
	o.registry = reg
	return o
}

// Root returns the configured root, before canonicalization.
func (o StoreOpt) Root() string { return o.root }

// Debounce returns the configured debounce window.
func (o StoreOpt) Debounce() time.Duration { return o.debounce }

// Fs returns the configured afero.Fs.
func (o StoreOpt) Fs() afero.Fs { return o.fs }

// Logger returns the configured logger.
func (o StoreOpt) Logger() *zap.Logger { return o.logger }

// Registry returns the configured Prometheus registry, or nil if metrics are
// disabled.
func (o StoreOpt) Registry() *prometheus.Registry { return o.registry }

// Store is the public façade: a Storage[C] plus the machinery that keeps it
// in sync with the filesystem. Callers obtain resources through the
// package-level Get/GetBy/GetProxied/GetProxiedBy functions, passing
// store.Storage, and call Sync periodically (or on a ticker) to apply pending
// reloads.
type Store[C any] struct {
	*Storage[C]

	source fswatch.Source
	sync   *synchronizer[C]
}

// New canonicalizes opt's root to an absolute, cleaned path, verifies it
// exists and is a directory, starts watching it recursively, and returns a
// Store ready to serve Get/GetBy calls. The root must already exist; New
// does not create it.
func New[C any](opt StoreOpt) (*Store[C], error) {
	root := opt.root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(abs)

	fs := opt.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	info, err := fs.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &RootDoesNotExistError{Root: root}
	}

	source, err := fswatch.NewRecursive(root)
	if err != nil {
		return nil, err
	}

	logger := opt.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opt.debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	metrics := newMetricsSink(opt.registry)
	storage := newStorage[C](root, metrics)
	sy := newSynchronizer[C](source, debounce, logger, metrics)

	return &Store[C]{
		Storage: storage,
		source:  source,
		sync:    sy,
	}, nil
}

// Sync drains pending filesystem events and reloads whatever has crossed the
// debounce threshold. It is idempotent when called with nothing pending, and
// is meant to be driven from a ticker or an explicit poll loop — it never
// blocks waiting for new events.
func (st *Store[C]) Sync(ctx *C) {
	st.sync.sync(st.Storage, ctx)
}

// Close stops the underlying event source. It does not release cached
// resources: Handles remain valid and readable after Close, they simply stop
// receiving reloads.
func (st *Store[C]) Close() error {
	return st.source.Close()
}
