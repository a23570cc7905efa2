package hotcache

// metrics.go is a thin abstraction over Prometheus, following the exact
// no-op-vs-real split the teacher uses in its own metrics.go: a Store built
// without StoreOpt.WithMetrics pays nothing on the hot path, one built with a
// *prometheus.Registry gets unlabeled counters and gauges for free.
//
// The metric set is different from arena-cache's (there is no eviction here,
// so no evictions_total/arena_bytes), but the taxonomy — counters suffixed
// "_total", bare-named gauges for the values worth watching live — is the same.
//
// ┌────────────────────────────────┐
// │ Metric                   │ Type │
// ├────────────────────────────────┤
// │ cache_hits_total          │ Ctr  │
// │ cache_misses_total        │ Ctr  │
// │ reloads_total             │ Ctr  │
// │ reload_errors_total       │ Ctr  │
// │ fs_events_total           │ Ctr  │
// │ cache_size                │ Gge  │
// │ dirty_queue_depth         │ Gge  │
// └────────────────────────────────┘
//
// © 2025 hotcache authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

// metricsSink is the internal interface Storage and the synchronizer depend
// on; it is not exposed outside the package.
type metricsSink interface {
	incCacheHit()
	incCacheMiss()
	incReload()
	incReloadError()
	incFSEvent()
	setCacheSize(n int)
	setDirtyQueueDepth(n int)
}

/* ---------------- no-op implementation ---------------- */

type noopMetrics struct{}

func (noopMetrics) incCacheHit()             {}
func (noopMetrics) incCacheMiss()            {}
func (noopMetrics) incReload()               {}
func (noopMetrics) incReloadError()          {}
func (noopMetrics) incFSEvent()              {}
func (noopMetrics) setCacheSize(int)         {}
func (noopMetrics) setDirtyQueueDepth(int)   {}

/* ---------------- Prometheus implementation ---------------- */

type promMetrics struct {
	hits             prometheus.Counter
	misses           prometheus.Counter
	reloads          prometheus.Counter
	reloadErrors     prometheus.Counter
	fsEvents         prometheus.Counter
	cacheSize        prometheus.Gauge
	dirtyQueueDepth  prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotcache", Name: "cache_hits_total",
			Help: "Number of Get/GetBy calls served from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotcache", Name: "cache_misses_total",
			Help: "Number of Get/GetBy calls that invoked a Loader.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotcache", Name: "reloads_total",
			Help: "Number of successful resource reloads triggered by Sync.",
		}),
		reloadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotcache", Name: "reload_errors_total",
			Help: "Number of reload attempts that returned an error (swallowed, logged).",
		}),
		fsEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hotcache", Name: "fs_events_total",
			Help: "Number of events observed from the event source, of any operation.",
		}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hotcache", Name: "cache_size",
			Help: "Number of resources currently cached.",
		}),
		dirtyQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hotcache", Name: "dirty_queue_depth",
			Help: "Number of resources currently pending debounce before reload.",
		}),
	}
	reg.MustRegister(pm.hits, pm.misses, pm.reloads, pm.reloadErrors, pm.fsEvents, pm.cacheSize, pm.dirtyQueueDepth)
	return pm
}

func (m *promMetrics) incCacheHit()           { m.hits.Inc() }
func (m *promMetrics) incCacheMiss()          { m.misses.Inc() }
func (m *promMetrics) incReload()             { m.reloads.Inc() }
func (m *promMetrics) incReloadError()        { m.reloadErrors.Inc() }
func (m *promMetrics) incFSEvent()            { m.fsEvents.Inc() }
func (m *promMetrics) setCacheSize(n int)     { m.cacheSize.Set(float64(n)) }
func (m *promMetrics) setDirtyQueueDepth(n int) { m.dirtyQueueDepth.Set(float64(n)) }

/* ---------------- factory ---------------- */

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
