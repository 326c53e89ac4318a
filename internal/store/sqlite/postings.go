package sqlite

import (
	"context"
	"fmt"

	"github.com/corpusindex/engine/internal/store"
)

// UpsertPosting inserts (termID, documentID, frequency) with tf_idf=0.
// If the pair already exists the call is a no-op — first frequency
// wins (§4.2: insert-or-ignore, because the per-document staging
// matrix already deduplicates terms before flush).
func (s *Store) UpsertPosting(ctx context.Context, termID, documentID, frequency int64) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO postings (term_id, document_id, frequency, tf_idf) VALUES (?, ?, ?, 0.0)`,
		termID, documentID, frequency)
	if err != nil {
		return false, fmt.Errorf("upsert posting: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert posting rows affected: %w", err)
	}
	return n > 0, nil
}

// UpdatePostingTFIDF writes the tf_idf value for one posting.
func (s *Store) UpdatePostingTFIDF(ctx context.Context, termID, documentID int64, value float64) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE postings SET tf_idf = ? WHERE term_id = ? AND document_id = ?`,
		value, termID, documentID)
	if err != nil {
		return fmt.Errorf("update posting tf_idf: %w", err)
	}
	return nil
}

// ScanPostings streams every posting row. Used by the TF-IDF Engine for
// its single recomputation pass.
func (s *Store) ScanPostings(ctx context.Context, fn func(termID, documentID, frequency int64) error) error {
	rows, err := s.q.QueryContext(ctx, `SELECT term_id, document_id, frequency FROM postings`)
	if err != nil {
		return fmt.Errorf("scan postings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var termID, documentID, frequency int64
		if err := rows.Scan(&termID, &documentID, &frequency); err != nil {
			return fmt.Errorf("scan posting row: %w", err)
		}
		if err := fn(termID, documentID, frequency); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PostingsForTerm streams (document_name, tf_idf) for one term_id,
// ordered by tf_idf descending.
func (s *Store) PostingsForTerm(ctx context.Context, termID int64, fn func(store.TermPosting) error) error {
	rows, err := s.q.QueryContext(ctx, `
		SELECT d.document_name, p.tf_idf
		FROM postings p
		JOIN documents d ON d.document_id = p.document_id
		WHERE p.term_id = ?
		ORDER BY p.tf_idf DESC`, termID)
	if err != nil {
		return fmt.Errorf("postings for term: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tp store.TermPosting
		if err := rows.Scan(&tp.DocumentName, &tp.TFIDF); err != nil {
			return fmt.Errorf("scan term posting: %w", err)
		}
		if err := fn(tp); err != nil {
			return err
		}
	}
	return rows.Err()
}
