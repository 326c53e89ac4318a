// Package tfidf recomputes every posting's TF-IDF score in a single
// pass over the store. It is invoked once per ingestion batch, after
// the staging matrix for every document in the batch has been
// flushed to the store.
package tfidf

import (
	"context"
	"fmt"
	"math"

	"github.com/corpusindex/engine/internal/store"
)

type posting struct {
	termID, documentID, frequency int64
}

// Run recomputes tf_idf for every posting in s.
//
// idf is cached per term for the duration of this single pass only —
// it is derived from term.document_count, which can change between
// passes as new documents are ingested, so caching it across calls
// would serve stale values.
//
// ScanPostings is drained into a slice before any lookup or update
// runs: the store's single pooled connection (§4.2) means a
// *sql.Rows left open for the scan would starve the GetDocumentTotalTerms/
// GetTermDocumentCount/UpdatePostingTFIDF calls below of a connection
// to run on, deadlocking the pass on any non-empty corpus.
func Run(ctx context.Context, s store.Store) error {
	totalDocuments, err := s.GetTotalDocuments(ctx)
	if err != nil {
		return fmt.Errorf("tfidf: get total documents: %w", err)
	}

	var postings []posting
	err = s.ScanPostings(ctx, func(termID, documentID, frequency int64) error {
		postings = append(postings, posting{termID, documentID, frequency})
		return nil
	})
	if err != nil {
		return fmt.Errorf("tfidf: scan postings: %w", err)
	}

	idfCache := make(map[int64]float64)

	for _, p := range postings {
		totalTerms, err := s.GetDocumentTotalTerms(ctx, p.documentID)
		if err != nil {
			return fmt.Errorf("tfidf: get document total terms: %w", err)
		}
		if totalTerms == 0 {
			continue
		}
		tf := float64(p.frequency) / float64(totalTerms)

		idf, ok := idfCache[p.termID]
		if !ok {
			documentCount, err := s.GetTermDocumentCount(ctx, p.termID)
			if err != nil {
				return fmt.Errorf("tfidf: get term document count: %w", err)
			}
			idf = math.Log(float64(totalDocuments) / float64(documentCount+1))
			idfCache[p.termID] = idf
		}

		if err := s.UpdatePostingTFIDF(ctx, p.termID, p.documentID, tf*idf); err != nil {
			return fmt.Errorf("tfidf: update posting: %w", err)
		}
	}
	return nil
}
