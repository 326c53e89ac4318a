package sqlite

import (
	"context"
	"fmt"
)

// SetTotalDocuments overwrites CorpusStats.total_documents. Always
// called as a recompute-from-truth (CountDocuments), never an
// increment, so a crash between flushes cannot desynchronize it
// (§3 invariant 3).
func (s *Store) SetTotalDocuments(ctx context.Context, n int64) error {
	_, err := s.q.ExecContext(ctx, `UPDATE corpus_stats SET total_documents = ?`, n)
	if err != nil {
		return fmt.Errorf("set total documents: %w", err)
	}
	return nil
}

// GetTotalDocuments reads CorpusStats.total_documents.
func (s *Store) GetTotalDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := s.q.QueryRowContext(ctx, `SELECT total_documents FROM corpus_stats`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("get total documents: %w", err)
	}
	return n, nil
}
