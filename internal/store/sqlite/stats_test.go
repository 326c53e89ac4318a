package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAndGetTotalDocuments_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTotalDocuments(ctx, 7))

	n, err := s.GetTotalDocuments(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
}

func TestSetTotalDocuments_OverwritesNotAccumulates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTotalDocuments(ctx, 5))
	require.NoError(t, s.SetTotalDocuments(ctx, 2))

	n, err := s.GetTotalDocuments(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}
