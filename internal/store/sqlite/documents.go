package sqlite

import (
	"context"
	"fmt"
)

// GetOrInsertDocument returns the document_id for url, creating the row
// if it does not already exist. Idempotent.
func (s *Store) GetOrInsertDocument(ctx context.Context, url string) (int64, error) {
	if _, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO documents (document_name) VALUES (?)`, url); err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}

	var id int64
	err := s.q.QueryRowContext(ctx,
		`SELECT document_id FROM documents WHERE document_name = ?`, url).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("select document: %w", err)
	}
	return id, nil
}

// SetDocumentCounts sets term_count and total_terms for a document.
func (s *Store) SetDocumentCounts(ctx context.Context, documentID, termCount, totalTerms int64) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE documents SET term_count = ?, total_terms = ? WHERE document_id = ?`,
		termCount, totalTerms, documentID)
	if err != nil {
		return fmt.Errorf("set document counts: %w", err)
	}
	return nil
}

// GetDocumentTotalTerms returns documents.total_terms for documentID.
func (s *Store) GetDocumentTotalTerms(ctx context.Context, documentID int64) (int64, error) {
	var n int64
	err := s.q.QueryRowContext(ctx,
		`SELECT total_terms FROM documents WHERE document_id = ?`, documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("get document total terms: %w", err)
	}
	return n, nil
}

// CountDocuments returns COUNT(*) of the documents table (§3 invariant
// 3: CorpusStats.total_documents must track this exactly).
func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
