// Package matrix implements the per-document staging matrix: an
// in-memory term-to-frequency accumulator built while a single
// document's token stream is consumed, then flushed and discarded.
package matrix

// Matrix accumulates term frequencies for one document. It is not
// safe for concurrent use; the ingestion pipeline builds and flushes
// one per document on a single goroutine.
type Matrix struct {
	counts map[string]int64
	total  int64
}

// New returns an empty staging matrix.
func New() *Matrix {
	return &Matrix{counts: make(map[string]int64)}
}

// Add records one occurrence of term.
func (m *Matrix) Add(term string) {
	m.counts[term]++
	m.total++
}

// AddAll records one occurrence of each term in tokens.
func (m *Matrix) AddAll(tokens []string) {
	for _, t := range tokens {
		m.Add(t)
	}
}

// UniqueTerms returns the number of distinct terms observed.
func (m *Matrix) UniqueTerms() int64 {
	return int64(len(m.counts))
}

// TotalTerms returns the sum of all term frequencies observed.
func (m *Matrix) TotalTerms() int64 {
	return m.total
}

// Each calls fn once per distinct term with its accumulated
// frequency. Iteration order is unspecified, matching the original
// hash-map-backed traversal this staging matrix is modeled on.
func (m *Matrix) Each(fn func(term string, frequency int64)) {
	for term, freq := range m.counts {
		fn(term, freq)
	}
}
