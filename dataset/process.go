package dataset

import (
	"runtime"
	"sync"
)

// ProcessOptions tunes the parallel row processor. The zero value runs
// one worker per CPU with no cache and no progress reporting.
type ProcessOptions struct {
	// Workers bounds the worker pool; <= 0 means runtime.NumCPU().
	Workers int
	// Cache, when non-nil, is consulted before extraction and updated
	// after a successful one.
	Cache *Cache
	// Progress, when non-nil, is called once per finished row from the
	// worker goroutines.
	Progress func()
	// Extract overrides the feature extractor; tests use it to inject
	// failures without crafting broken files. Defaults to ExtractFeatures.
	Extract func(path string) ([]float64, error)
}

// ProcessRows runs feature extraction and genre encoding for every
// matched row on a bounded worker pool. Exactly one ProcessedRow comes
// back per input row, at the input row's index, so output order equals
// input order. A row's failure is recorded in its Err field and never
// touches any other row.
func ProcessRows(rows []MatchedRow, mapping GenreMapping, opts ProcessOptions) []ProcessedRow {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	extract := opts.Extract
	if extract == nil {
		extract = ExtractFeatures
	}

	results := make([]ProcessedRow, len(rows))
	jobs := make(chan int, len(rows))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processRow(rows[i], mapping, opts.Cache, extract)
				if opts.Progress != nil {
					opts.Progress()
				}
			}
		}()
	}

	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func processRow(row MatchedRow, mapping GenreMapping, cache *Cache, extract func(string) ([]float64, error)) ProcessedRow {
	out := ProcessedRow{Path: row.Path, Genre: row.Genre}

	oneHot, err := mapping.OneHot(row.Genre)
	if err != nil {
		// Unreachable when the mapping was built from the same rows;
		// recorded rather than swallowed so the caller can surface it.
		out.Err = err
		return out
	}
	out.OneHot = oneHot

	if cache != nil {
		if features, ok := cache.Get(row.Path); ok {
			out.Features = features
			return out
		}
	}

	features, err := extract(row.Path)
	if err != nil {
		out.Err = err
		return out
	}
	out.Features = features

	if cache != nil {
		_ = cache.Put(row.Path, features) // cache trouble is not a row failure
	}
	return out
}
