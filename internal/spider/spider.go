// Package spider walks a dump directory, extracts each file's URL and
// token stream, builds a per-document staging matrix, and flushes the
// result into a Persistent Index Store inside one transaction per
// document.
package spider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/corpusindex/engine/internal/extract"
	"github.com/corpusindex/engine/internal/matrix"
	"github.com/corpusindex/engine/internal/store"
)

const gitkeepName = ".gitkeep"

// Extractor turns a dump file into a URL and token stream. The
// default implementation is extract.File; tests substitute a stub.
type Extractor interface {
	File(path string) (extract.Document, error)
}

type defaultExtractor struct{}

func (defaultExtractor) File(path string) (extract.Document, error) { return extract.File(path) }

// Stats summarizes one ReindexBatch call for logging.
type Stats struct {
	FilesSeen        int
	DocumentsIndexed int
	FilesSkipped     int
	Errors           int
}

// Spider drives ingestion into whichever store each ReindexBatch call
// is given. It keeps an in-memory dedup set of paths already processed
// in its lifetime, shared across those stores,
// mirroring the original engine's indexed_documents set.
type Spider struct {
	extractor Extractor
	seen      map[string]struct{}
	log       zerolog.Logger
}

// New returns a Spider using the default filesystem-backed extractor.
func New(log zerolog.Logger) *Spider {
	return &Spider{
		extractor: defaultExtractor{},
		seen:      make(map[string]struct{}),
		log:       log,
	}
}

// WithExtractor overrides the extractor, for tests.
func (s *Spider) WithExtractor(e Extractor) *Spider {
	s.extractor = e
	return s
}

// ReindexBatch walks dumpDir non-recursively and ingests every file
// it has not already processed, against s. Successfully ingested
// files are deleted; files that fail or are skipped are retained and
// logged. Every path is added to the dedup set before it is ingested,
// so later calls on this Spider skip a retained file rather than
// retry it.
func (sp *Spider) ReindexBatch(ctx context.Context, s store.Store, dumpDir string) (Stats, error) {
	var stats Stats

	entries, err := os.ReadDir(dumpDir)
	if err != nil {
		return stats, fmt.Errorf("spider: read dump dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stats.FilesSeen++

		name := entry.Name()
		if name == gitkeepName {
			stats.FilesSkipped++
			continue
		}

		path := filepath.Join(dumpDir, name)
		if _, already := sp.seen[path]; already {
			stats.FilesSkipped++
			continue
		}
		sp.seen[path] = struct{}{}

		indexed, err := sp.ingestOne(ctx, s, path)
		if err != nil {
			stats.Errors++
			sp.log.Error().Err(err).Str("path", path).Msg("failed to ingest dump file")
			continue
		}
		if !indexed {
			stats.FilesSkipped++
			continue
		}
		stats.DocumentsIndexed++

		if err := os.Remove(path); err != nil {
			sp.log.Error().Err(err).Str("path", path).Msg("failed to delete ingested dump file")
		}

		total, err := s.CountDocuments(ctx)
		if err != nil {
			return stats, fmt.Errorf("spider: count documents: %w", err)
		}
		if err := s.SetTotalDocuments(ctx, total); err != nil {
			return stats, fmt.Errorf("spider: set total documents: %w", err)
		}
	}

	return stats, nil
}

// ingestOne extracts path and flushes its staging matrix into s
// inside a single transaction. indexed is false when the file is a
// corrupt document (no delimiter, or no <body>) and was skipped
// rather than failed.
func (sp *Spider) ingestOne(ctx context.Context, s store.Store, path string) (indexed bool, err error) {
	doc, err := sp.extractor.File(path)
	if err != nil {
		if errors.Is(err, extract.ErrNoDelimiter) {
			sp.log.Warn().Str("path", path).Msg("skipping corrupt document: missing URL delimiter")
			return false, nil
		}
		return false, fmt.Errorf("extract: %w", err)
	}
	if len(doc.Tokens) == 0 {
		sp.log.Warn().Str("path", path).Str("url", doc.URL).Msg("skipping document with empty body")
		return false, nil
	}

	m := matrix.New()
	m.AddAll(doc.Tokens)

	err = s.WithTx(ctx, func(tx store.Store) error {
		documentID, err := tx.GetOrInsertDocument(ctx, doc.URL)
		if err != nil {
			return fmt.Errorf("get or insert document: %w", err)
		}
		if err := tx.SetDocumentCounts(ctx, documentID, m.UniqueTerms(), m.TotalTerms()); err != nil {
			return fmt.Errorf("set document counts: %w", err)
		}

		var flushErr error
		m.Each(func(term string, frequency int64) {
			if flushErr != nil {
				return
			}
			termID, err := tx.GetOrInsertTerm(ctx, term)
			if err != nil {
				flushErr = fmt.Errorf("get or insert term %q: %w", term, err)
				return
			}
			created, err := tx.UpsertPosting(ctx, termID, documentID, frequency)
			if err != nil {
				flushErr = fmt.Errorf("upsert posting: %w", err)
				return
			}
			if created {
				if err := tx.IncrementTermDocumentCount(ctx, termID); err != nil {
					flushErr = fmt.Errorf("increment term document count: %w", err)
				}
			}
		})
		return flushErr
	})
	if err != nil {
		return false, fmt.Errorf("flush document: %w", err)
	}

	return true, nil
}
