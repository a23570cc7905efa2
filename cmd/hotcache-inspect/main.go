package main

// main.go implements the hotcache inspector CLI: it polls the Prometheus-
// backed diagnostic snapshot from a target process, prints it as pretty text
// or raw JSON, and — because the number operators actually care about for a
// hot-reloading cache is whether reloads are keeping up with writes, not a
// static point-in-time count — can render per-second rates across polls in
// watch mode and raise a non-zero exit when the dirty queue backs up past a
// threshold. This assumes the target process exposes, alongside its own
// routes:
//
//	GET /debug/hotcache/snapshot   – JSON payload of the current gauges
//	GET /debug/pprof/{heap,goroutine} – standard net/http/pprof handlers
//
// This repository ships no server-side handler for the snapshot route; the
// target process has to provide one.
//
// Build-time flag: `-ldflags "-X main.version=vX.Y.Z"` is set by the release
// pipeline.
//
// © 2025 hotcache authors. MIT License.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var version = "dev"

// snapshot is the JSON shape this tool expects from /debug/hotcache/snapshot,
// one field per metric in pkg/metrics.go.
// Decoding straight into typed fields instead of a map[string]any means
// there's no per-field type-switch needed to print or difference a value —
// the server and this tool agree on the shape, unlike a generic metrics
// scraper that has to tolerate whatever a target happens to expose.
type snapshot struct {
	CacheSize         float64 `json:"cache_size"`
	DirtyQueueDepth   float64 `json:"dirty_queue_depth"`
	CacheHitsTotal    float64 `json:"cache_hits_total"`
	CacheMissesTotal  float64 `json:"cache_misses_total"`
	ReloadsTotal      float64 `json:"reloads_total"`
	ReloadErrorsTotal float64 `json:"reload_errors_total"`
	FSEventsTotal     float64 `json:"fs_events_total"`

	polledAt time.Time
}

func main() {
	opts := parseFlags()

	if opts.version {
		fmt.Println(version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if opts.heapProfile != "" {
		if err := downloadProfile(ctx, opts.target, "heap", opts.heapProfile); err != nil {
			fatal(err)
		}
		return
	}
	if opts.goroutineProfile != "" {
		if err := downloadProfile(ctx, opts.target, "goroutine", opts.goroutineProfile); err != nil {
			fatal(err)
		}
		return
	}

	if opts.watch {
		runWatch(ctx, opts)
		return
	}

	snap, err := fetchSnapshot(ctx, opts.target)
	if err != nil {
		fatal(err)
	}
	if err := render(snap, nil, opts); err != nil {
		fatal(err)
	}
	if opts.alertDirty > 0 && snap.DirtyQueueDepth > float64(opts.alertDirty) {
		fmt.Fprintf(os.Stderr, "hotcache-inspect: dirty queue depth %.0f exceeds -alert-dirty=%d\n", snap.DirtyQueueDepth, opts.alertDirty)
		os.Exit(1)
	}
}

// runWatch polls on a ticker, threading the previous sample through so
// -rates can report per-second deltas instead of the raw running totals a
// single poll sees. A one-shot poll has nothing to diff against, which is
// why rate reporting only ever applies here.
func runWatch(ctx context.Context, opts *options) {
	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	var prev *snapshot
	alerting := false
	for {
		snap, err := fetchSnapshot(ctx, opts.target)
		switch {
		case err != nil:
			fmt.Fprintln(os.Stderr, "error:", err)
		default:
			if err := render(snap, prev, opts); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			exceeded := opts.alertDirty > 0 && snap.DirtyQueueDepth > float64(opts.alertDirty)
			if exceeded && !alerting {
				fmt.Fprintf(os.Stderr, "hotcache-inspect: dirty queue depth %.0f exceeds -alert-dirty=%d\n", snap.DirtyQueueDepth, opts.alertDirty)
			} else if !exceeded && alerting {
				fmt.Fprintln(os.Stderr, "hotcache-inspect: dirty queue back under threshold")
			}
			alerting = exceeded
			prev = snap
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			return
		}
	}
}

func fetchSnapshot(ctx context.Context, base string) (*snapshot, error) {
	url := base + "/debug/hotcache/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	var snap snapshot
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		return nil, err
	}
	snap.polledAt = time.Now()
	return &snap, nil
}

// render prints snap either as raw JSON or as a formatted summary. When prev
// is non-nil and -rates was requested, the summary shows per-second deltas
// for all five counters instead of their running totals.
func render(snap, prev *snapshot, opts *options) error {
	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Printf("Cache size:        %.0f\n", snap.CacheSize)
	fmt.Printf("Dirty queue depth: %.0f\n", snap.DirtyQueueDepth)

	if opts.rates && prev != nil {
		elapsed := snap.polledAt.Sub(prev.polledAt).Seconds()
		fmt.Printf("Hits/sec:          %s\n", formatRate(snap.CacheHitsTotal-prev.CacheHitsTotal, elapsed))
		fmt.Printf("Misses/sec:        %s\n", formatRate(snap.CacheMissesTotal-prev.CacheMissesTotal, elapsed))
		fmt.Printf("Reloads/sec:       %s\n", formatRate(snap.ReloadsTotal-prev.ReloadsTotal, elapsed))
		fmt.Printf("Reload errors/sec: %s\n", formatRate(snap.ReloadErrorsTotal-prev.ReloadErrorsTotal, elapsed))
		fmt.Printf("FS events/sec:     %s\n", formatRate(snap.FSEventsTotal-prev.FSEventsTotal, elapsed))
		return nil
	}

	fmt.Printf("Hits:              %.0f\n", snap.CacheHitsTotal)
	fmt.Printf("Misses:            %.0f\n", snap.CacheMissesTotal)
	fmt.Printf("Reloads:           %.0f\n", snap.ReloadsTotal)
	fmt.Printf("Reload errors:     %.0f\n", snap.ReloadErrorsTotal)
	fmt.Printf("FS events:         %.0f\n", snap.FSEventsTotal)
	return nil
}

func formatRate(delta, elapsedSeconds float64) string {
	if elapsedSeconds <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", delta/elapsedSeconds)
}

func downloadProfile(ctx context.Context, base, name, path string) error {
	url := fmt.Sprintf("%s/debug/pprof/%s", base, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", res.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, res.Body); err != nil {
		return err
	}
	fmt.Printf("%s profile saved to %s\n", name, path)
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "hotcache-inspect:", err)
	os.Exit(1)
}
