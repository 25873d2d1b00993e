// Package bloom provides batch-level URL deduplication using Bloom
// filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter tracks which URLs a batch has already processed. False
// positives are possible, so callers must pair a positive Seen with an
// exact-match check before skipping work; false negatives are not.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add marks a URL as processed.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Seen reports whether the URL might have been processed already.
func (f *Filter) Seen(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
