package frame

import (
	"runtime"
	"sync"
)

// ParallelFor splits [0, n) into contiguous chunks of at least minChunk and
// runs fn on each chunk concurrently.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
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
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// forEach runs fn for every index, concurrently when parallel is set, and
// returns the error of the lowest failing index.
func forEach(n int, parallel bool, fn func(i int) error) error {
	errs := make([]error, n)
	body := func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = fn(i)
		}
	}
	if parallel {
		ParallelFor(n, 4, body)
	} else {
		body(0, n)
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
