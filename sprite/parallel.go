package sprite

import (
	"runtime"
	"sync"
)

// ParallelConfig configures row-parallel blending within a single layer.
// Layers are always blended one after another.
type ParallelConfig struct {
	// NumWorkers is the number of worker goroutines. 0 and 1 run
	// sequentially; a negative value means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum number of rows per worker before splitting.
	GrainSize int
}

// DefaultParallelConfig returns the sequential configuration.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		NumWorkers: 1,
		GrainSize:  64,
	}
}

// effectiveWorkers returns the number of workers to use.
func effectiveWorkers(config ParallelConfig) int {
	switch {
	case config.NumWorkers < 0:
		return runtime.GOMAXPROCS(0)
	case config.NumWorkers == 0:
		return 1
	default:
		return config.NumWorkers
	}
}

// parallelFor runs fn(i) for i in [0, n), splitting the range into
// contiguous chunks when it is large enough to be worth it.
func parallelFor(config ParallelConfig, n int, fn func(i int)) {
	numWorkers := effectiveWorkers(config)
	grain := config.GrainSize
	if grain < 1 {
		grain = 1
	}

	if numWorkers == 1 || n <= grain*numWorkers {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}
