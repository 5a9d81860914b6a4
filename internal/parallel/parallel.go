// Package parallel provides chunked parallel execution for compute kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how a loop is split across goroutines.
type Config struct {
	Enabled   bool // Whether parallel execution is enabled.
	Workers   int  // Number of worker goroutines.
	MinChunk  int  // Minimum iterations per goroutine to amortize spawn cost.
}

// DefaultConfig returns defaults sized to the host CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:  n > 1,
		Workers:  n,
		MinChunk: 64,
	}
}

// For executes f(i) for i in [0, n), splitting the range across workers.
// Runs sequentially when parallelism is disabled or n is below MinChunk.
//
// Used by backend kernels to parallelize across output rows; this is the
// only parallelism inside a training step, so steps stay semantically
// sequential.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := max((n+cfg.Workers-1)/cfg.Workers, cfg.MinChunk)

	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
