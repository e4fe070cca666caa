// Package parallel runs row-oriented work over contiguous index ranges on a
// bounded number of goroutines.
package parallel

import (
	"runtime"
	"sync"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

const chunkOperation = "parallel.ForEachChunk"

// chunkBounds returns the half-open range handled by worker i when items are
// split into chunks of size.
func chunkBounds(i, size, items int) (int, int) {
	lo := i * size
	hi := min(lo+size, items)
	return lo, hi
}

// ForEachChunk splits [0, items) into contiguous chunks, one per worker, and
// runs fn on each chunk concurrently. workers <= 0 means runtime.NumCPU().
//
// Chunks never overlap, so fn may write to per-item slots without locking.
// If any chunk fails, the error of the lowest-indexed failing chunk is
// returned; a panic inside fn is recovered into *errors.PanicError.
func ForEachChunk(items, workers int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, items)

	run := func(lo, hi int) error {
		return errors.SafeExecute(chunkOperation, func() error { return fn(lo, hi) })
	}
	if workers == 1 {
		return run(0, items)
	}

	size := (items + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := chunkBounds(w, size, items)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[w] = run(lo, hi)
		}()
	}
	wg.Wait()

	// 先頭のチャンクから順に見るので、最も小さい行番号の失敗が返る
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ForEachChunkWithThreshold runs fn once over the whole range on the calling
// goroutine when items <= threshold, and defers to ForEachChunk otherwise.
func ForEachChunkWithThreshold(items, threshold, workers int, fn func(start, end int) error) error {
	if items <= threshold {
		workers = 1
	}
	return ForEachChunk(items, workers, fn)
}
