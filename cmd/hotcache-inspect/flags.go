package main

// flags.go parses hotcache-inspect's command line. Kept in its own file the
// way the teacher splits CLI plumbing from the fetch/print logic in main.go.
//
// © 2025 hotcache authors. MIT License.

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type options struct {
	target           string
	watch            bool
	interval         time.Duration
	json             bool
	rates            bool
	alertDirty       int
	heapProfile      string
	goroutineProfile string
	version          bool
}

func parseFlags() *options {
	opts := &options{}

	flag.StringVar(&opts.target, "target", "http://127.0.0.1:6060", "base URL of the process exposing /debug/hotcache/snapshot")
	flag.BoolVar(&opts.watch, "watch", false, "poll the snapshot endpoint repeatedly instead of fetching once")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval when -watch is set")
	flag.BoolVar(&opts.json, "json", false, "print the raw JSON snapshot instead of a formatted summary")
	flag.BoolVar(&opts.rates, "rates", false, "in -watch mode, show hits/misses/reloads per second since the previous poll instead of running totals")
	flag.IntVar(&opts.alertDirty, "alert-dirty", 0, "warn (and exit non-zero outside -watch) when dirty_queue_depth exceeds this many pending resources; 0 disables")
	flag.StringVar(&opts.heapProfile, "heap-profile", "", "download /debug/pprof/heap to this path and exit")
	flag.StringVar(&opts.goroutineProfile, "goroutine-profile", "", "download /debug/pprof/goroutine to this path and exit")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hotcache-inspect: inspect a running hotcache.Store over HTTP\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opts
}
