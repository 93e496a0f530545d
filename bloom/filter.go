// Package bloom provides article URL deduplication using Bloom filters.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/magdoc"
)

// DefaultFalsePositiveRate is the false positive rate used by NewURLSet.
// A false positive makes the harvester skip an article, so it is kept low.
const DefaultFalsePositiveRate = 0.0001

var _ magdoc.URLSet = (*Filter)(nil)

// Filter is a Bloom filter over article URLs. URLs are compared by host
// and path; the scheme, query, fragment and a trailing slash are ignored.
// It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewURLSet creates a filter sized for the articles of edition e.
func NewURLSet(e *magdoc.Edition) *Filter {
	n := uint(e.ArticleCount())
	if n < 16 {
		n = 16
	}
	return NewFilter(n, DefaultFalsePositiveRate)
}

// Add adds a URL to the filter.
func (f *Filter) Add(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(key(rawURL))
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(key(rawURL))
}

// TestAndAdd implements magdoc.URLSet.
func (f *Filter) TestAndAdd(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(key(rawURL))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

func key(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.ToLower(u.Host) + strings.TrimSuffix(u.EscapedPath(), "/")
}
