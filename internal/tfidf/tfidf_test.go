package tfidf

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpusindex/engine/internal/store"
	"github.com/corpusindex/engine/internal/store/sqlite"
)

func testStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Ensure(context.Background()))
	return s
}

func ingestDoc(t *testing.T, ctx context.Context, s *sqlite.Store, url string, terms map[string]int64, totalTerms int64) int64 {
	t.Helper()
	docID, err := s.GetOrInsertDocument(ctx, url)
	require.NoError(t, err)
	require.NoError(t, s.SetDocumentCounts(ctx, docID, int64(len(terms)), totalTerms))

	for term, freq := range terms {
		termID, err := s.GetOrInsertTerm(ctx, term)
		require.NoError(t, err)
		created, err := s.UpsertPosting(ctx, termID, docID, freq)
		require.NoError(t, err)
		if created {
			require.NoError(t, s.IncrementTermDocumentCount(ctx, termID))
		}
	}
	return docID
}

func TestRun_SingleDocumentSingleTerm(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ingestDoc(t, ctx, s, "http://a", map[string]int64{"cat": 2}, 2)
	require.NoError(t, s.SetTotalDocuments(ctx, 1))

	require.NoError(t, Run(ctx, s))

	termID, ok, err := s.LookupTermID(ctx, "cat")
	require.NoError(t, err)
	require.True(t, ok)

	var got float64
	require.NoError(t, s.PostingsForTerm(ctx, termID, func(tp store.TermPosting) error {
		got = tp.TFIDF
		return nil
	}))

	// tf = 2/2 = 1; idf = ln(1 / (1+1)) = ln(0.5)
	want := 1.0 * math.Log(0.5)
	require.InDelta(t, want, got, 1e-9)
}

func TestRun_IDFCachedPerPassNotAcrossCalls(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ingestDoc(t, ctx, s, "http://a", map[string]int64{"cat": 1}, 1)
	require.NoError(t, s.SetTotalDocuments(ctx, 1))
	require.NoError(t, Run(ctx, s))

	termID, _, err := s.LookupTermID(ctx, "cat")
	require.NoError(t, err)

	var firstPass float64
	require.NoError(t, s.PostingsForTerm(ctx, termID, func(tp store.TermPosting) error {
		firstPass = tp.TFIDF
		return nil
	}))

	ingestDoc(t, ctx, s, "http://b", map[string]int64{"cat": 1}, 1)
	require.NoError(t, s.SetTotalDocuments(ctx, 2))
	require.NoError(t, Run(ctx, s))

	var secondPassA float64
	require.NoError(t, s.PostingsForTerm(ctx, termID, func(tp store.TermPosting) error {
		if tp.DocumentName == "http://a" {
			secondPassA = tp.TFIDF
		}
		return nil
	}))

	require.NotEqual(t, firstPass, secondPassA, "idf must be recomputed fresh on each pass as document_count changes")
}

func TestRun_EmptyCorpusIsNoop(t *testing.T) {
	s := testStore(t)
	require.NoError(t, Run(context.Background(), s))
}
