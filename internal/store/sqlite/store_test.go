package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpusindex/engine/internal/store"
)

var errSentinel = errors.New("sentinel")

// testStore creates a temporary, already-migrated store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Ensure(context.Background()))
	return s
}

func TestNew_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "another", "test.db")
	s, err := New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	require.FileExists(t, dbPath)
}

func TestStore_Ensure_Idempotent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Ensure(context.Background()))
}

func TestStore_GetTotalDocuments_SeededZero(t *testing.T) {
	s := testStore(t)
	n, err := s.GetTotalDocuments(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestStore_Clone(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.GetOrInsertTerm(ctx, "hello")
	require.NoError(t, err)
	require.NotZero(t, id)

	destPath := filepath.Join(t.TempDir(), "shadow.db")
	require.NoError(t, s.Clone(ctx, destPath))
	require.FileExists(t, destPath)

	clone, err := New(destPath)
	require.NoError(t, err)
	defer clone.Close()

	cloneID, ok, err := clone.LookupTermID(ctx, "hello")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, cloneID)
}

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetOrInsertTerm(ctx, "rolledback"); err != nil {
			return err
		}
		return errSentinel
	})
	require.Error(t, err)

	_, ok, lookupErr := s.LookupTermID(ctx, "rolledback")
	require.NoError(t, lookupErr)
	require.False(t, ok, "writes inside a failed transaction must not be visible")
}
