package dynamo

import (
	"runtime"
	"sync"
)

// Workers returns n when positive, otherwise the number of CPUs.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ParallelFor executes fn over [0, n) split into at most workers contiguous
// chunks of at least minChunk indices. fn receives the worker slot so callers
// can keep per-worker accumulators.
func ParallelFor(n, minChunk, workers int, fn func(worker, start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if workers <= 1 || n <= minChunk {
		fn(0, 0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(slot, s, e int) {
			defer wg.Done()
			fn(slot, s, e)
		}(w, start, end)
	}

	wg.Wait()
}

// Chunks returns how many worker slots ParallelFor may use for the given
// arguments. Callers size per-worker buffers with it.
func Chunks(n, minChunk, workers int) int {
	if minChunk < 1 {
		minChunk = 1
	}
	if workers <= 1 || n <= minChunk {
		return 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		return 1
	}
	return workers
}
