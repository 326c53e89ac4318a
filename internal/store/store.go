// Package store declares the domain types and the Persistent Index Store
// contract. internal/store/sqlite is the only implementation.
package store

import "context"

// Term is a row in the terms table.
type Term struct {
	ID             int64
	Text           string
	DocumentCount  int64
}

// Document is a row in the documents table.
type Document struct {
	ID         int64
	Name       string // the source URL
	TermCount  int64  // number of distinct terms
	TotalTerms int64  // sum of term frequencies
}

// Posting is a row in the postings table: one (term, document) pair.
type Posting struct {
	TermID     int64
	DocumentID int64
	Frequency  int64
	TFIDF      float64
}

// SearchHit is one ranked result from the Query Evaluator.
type SearchHit struct {
	DocumentName string
	Score        float64
}

// CorpusStats is the singleton stats row.
type CorpusStats struct {
	TotalDocuments int64
}

// TermPosting is a posting joined with its owning document's name, as
// returned by PostingsForTerm.
type TermPosting struct {
	DocumentName string
	TFIDF        float64
}

// Store is the full Persistent Index Store contract (§4.2). All
// operations are atomic with respect to concurrent readers.
type Store interface {
	// GetOrInsertTerm returns the term_id for text, creating the row if
	// it does not already exist.
	GetOrInsertTerm(ctx context.Context, text string) (int64, error)

	// GetOrInsertDocument returns the document_id for url, creating the
	// row if it does not already exist.
	GetOrInsertDocument(ctx context.Context, url string) (int64, error)

	// SetDocumentCounts sets term_count and total_terms for a document.
	SetDocumentCounts(ctx context.Context, documentID, termCount, totalTerms int64) error

	// UpsertPosting inserts (termID, documentID, frequency) with
	// tf_idf=0. If the pair already exists the call is a no-op
	// (insert-or-ignore) and created reports false.
	UpsertPosting(ctx context.Context, termID, documentID, frequency int64) (created bool, err error)

	// IncrementTermDocumentCount bumps terms.document_count by one.
	IncrementTermDocumentCount(ctx context.Context, termID int64) error

	// ScanPostings streams every posting row, invoking fn for each. fn
	// returning an error stops the scan and is returned to the caller.
	ScanPostings(ctx context.Context, fn func(termID, documentID, frequency int64) error) error

	// GetDocumentTotalTerms returns documents.total_terms for documentID.
	GetDocumentTotalTerms(ctx context.Context, documentID int64) (int64, error)

	// GetTermDocumentCount returns terms.document_count for termID.
	GetTermDocumentCount(ctx context.Context, termID int64) (int64, error)

	// UpdatePostingTFIDF writes the tf_idf value for one posting.
	UpdatePostingTFIDF(ctx context.Context, termID, documentID int64, value float64) error

	// CountDocuments returns COUNT(*) of the documents table.
	CountDocuments(ctx context.Context) (int64, error)

	// SetTotalDocuments overwrites CorpusStats.total_documents.
	SetTotalDocuments(ctx context.Context, n int64) error

	// GetTotalDocuments reads CorpusStats.total_documents.
	GetTotalDocuments(ctx context.Context) (int64, error)

	// LookupTermID returns the term_id for an exact term match, and
	// false if the term has never been indexed.
	LookupTermID(ctx context.Context, text string) (int64, bool, error)

	// PostingsForTerm streams (document_name, tf_idf) for one term_id,
	// ordered by tf_idf descending.
	PostingsForTerm(ctx context.Context, termID int64, fn func(TermPosting) error) error

	// WithTx runs fn inside a single transaction. All writes inside fn
	// become visible to readers atomically on commit.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Clone copies the store's on-disk file byte-for-byte to destPath.
	Clone(ctx context.Context, destPath string) error

	// Close releases the underlying connection.
	Close() error
}
