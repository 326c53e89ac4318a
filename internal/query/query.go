// Package query evaluates ranked multi-term searches against a
// Persistent Index Store.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/corpusindex/engine/internal/store"
)

// Search tokenizes queryText on whitespace (no punctuation stripping)
// and looks each token up verbatim against s. Scores accumulate
// tf_idf per document across every matching term; unknown terms
// contribute zero. Results are sorted by score descending, ties
// broken by document name ascending.
func Search(ctx context.Context, s store.Store, queryText string) ([]store.SearchHit, error) {
	terms := strings.Fields(queryText)

	scores := make(map[string]float64)
	for _, term := range terms {
		termID, ok, err := s.LookupTermID(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("query: lookup term %q: %w", term, err)
		}
		if !ok {
			continue
		}

		err = s.PostingsForTerm(ctx, termID, func(tp store.TermPosting) error {
			scores[tp.DocumentName] += tp.TFIDF
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("query: postings for term %q: %w", term, err)
		}
	}

	hits := make([]store.SearchHit, 0, len(scores))
	for name, score := range scores {
		hits = append(hits, store.SearchHit{DocumentName: name, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocumentName < hits[j].DocumentName
	})

	return hits, nil
}
