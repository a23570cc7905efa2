// Command fixture_gen generates a directory of sample resource files for
// stress-testing a hotcache.Store's watch/debounce/reload pipeline outside
// `go test`: a one-shot run seeds N files, an optional churn mode keeps
// rewriting a random subset of them forever so the watcher has something to
// debounce.
//
// Usage:
//
//	go run ./tools/fixture_gen -n 1000 -dir ./fixtures
//	go run ./tools/fixture_gen -n 1000 -dir ./fixtures -churn 0.05 -interval 500ms
//
// Flags:
//
//	-n         number of fixture files to create (default 1000)
//	-dir       output directory (default ./fixtures)
//	-seed      PRNG seed (default current time)
//	-churn     fraction of files rewritten per tick, 0 disables churn mode (default 0)
//	-interval  churn tick interval (default 1s)
//
// © 2025 hotcache authors. MIT License.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

func main() {
	var (
		n        = flag.Int("n", 1000, "number of fixture files to create")
		dir      = flag.String("dir", "./fixtures", "output directory")
		seedVal  = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		churn    = flag.Float64("churn", 0, "fraction of files rewritten per tick; 0 disables churn mode")
		interval = flag.Duration("interval", time.Second, "churn tick interval")
	)
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "mkdir:", err)
		os.Exit(1)
	}

	rnd := rand.New(rand.NewSource(*seedVal))

	names := make([]string, *n)
	for i := range names {
		names[i] = filepath.Join(*dir, fmt.Sprintf("res-%06d.txt", i))
		if err := writeFixture(names[i], rnd, 0); err != nil {
			fmt.Fprintln(os.Stderr, "write:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded %d fixtures under %s\n", *n, *dir)

	if *churn <= 0 {
		return
	}
	if *churn > 1 {
		*churn = 1
	}

	perTick := int(float64(*n) * *churn)
	if perTick < 1 {
		perTick = 1
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	gen := 1
	for range ticker.C {
		for i := 0; i < perTick; i++ {
			idx := rnd.Intn(*n)
			if err := writeFixture(names[idx], rnd, gen); err != nil {
				fmt.Fprintln(os.Stderr, "rewrite:", err)
			}
		}
		fmt.Printf("generation %d: rewrote %d fixtures\n", gen, perTick)
		gen++
	}
}

func writeFixture(path string, rnd *rand.Rand, generation int) error {
	body := fmt.Sprintf("generation=%d token=%d\n", generation, rnd.Int63())
	return os.WriteFile(path, []byte(body), 0o644)
}
