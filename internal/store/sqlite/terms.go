package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetOrInsertTerm returns the term_id for text, creating the row if it
// does not already exist. Idempotent: a second call for the same text
// returns the same id.
func (s *Store) GetOrInsertTerm(ctx context.Context, text string) (int64, error) {
	if _, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO terms (term, document_count) VALUES (?, 0)`, text); err != nil {
		return 0, fmt.Errorf("insert term: %w", err)
	}

	var id int64
	err := s.q.QueryRowContext(ctx, `SELECT term_id FROM terms WHERE term = ?`, text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("select term: %w", err)
	}
	return id, nil
}

// IncrementTermDocumentCount bumps terms.document_count by one. Called
// once per (term, document) pair the first time the posting is created.
func (s *Store) IncrementTermDocumentCount(ctx context.Context, termID int64) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE terms SET document_count = document_count + 1 WHERE term_id = ?`, termID)
	if err != nil {
		return fmt.Errorf("increment term document count: %w", err)
	}
	return nil
}

// GetTermDocumentCount returns terms.document_count for termID.
func (s *Store) GetTermDocumentCount(ctx context.Context, termID int64) (int64, error) {
	var n int64
	err := s.q.QueryRowContext(ctx,
		`SELECT document_count FROM terms WHERE term_id = ?`, termID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("get term document count: %w", err)
	}
	return n, nil
}

// LookupTermID returns the term_id for an exact match of text, and
// false if the term has never been indexed. Used by the Query Evaluator,
// which performs no stemming or fuzzy matching (§4.5: literal term
// match).
func (s *Store) LookupTermID(ctx context.Context, text string) (int64, bool, error) {
	var id int64
	err := s.q.QueryRowContext(ctx, `SELECT term_id FROM terms WHERE term = ?`, text).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("lookup term: %w", err)
	}
	return id, true, nil
}
