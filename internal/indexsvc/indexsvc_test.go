package indexsvc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/corpusindex/engine/internal/pool"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dataDir := t.TempDir()
	dumpDir := t.TempDir()
	p := pool.New(2)
	t.Cleanup(p.Shutdown)

	svc, err := Open(dataDir, dumpDir, p, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Current() })
	return svc, dumpDir
}

func writeDump(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestOpen_StartsInLiveOnly(t *testing.T) {
	svc, _ := newTestService(t)
	require.Equal(t, LiveOnly, svc.State())
}

func TestColdStart_IngestsIntoLiveStore(t *testing.T) {
	svc, dumpDir := newTestService(t)
	writeDump(t, dumpDir, "a.html", "http://a\n---URL---\n<body>hello world</body>")

	stats, err := svc.ColdStart(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.DocumentsIndexed)

	n, err := svc.Current().CountDocuments(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestReindex_EndsBackInLiveOnlyWithNewDocuments(t *testing.T) {
	svc, dumpDir := newTestService(t)
	ctx := context.Background()

	writeDump(t, dumpDir, "a.html", "http://a\n---URL---\n<body>hello world</body>")
	_, err := svc.ColdStart(ctx)
	require.NoError(t, err)

	writeDump(t, dumpDir, "b.html", "http://b\n---URL---\n<body>second document</body>")
	stats, err := svc.Reindex(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.DocumentsIndexed)

	require.Equal(t, LiveOnly, svc.State())

	n, err := svc.Current().CountDocuments(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestReindex_LiveFileReplacedAtKnownPath(t *testing.T) {
	svc, dumpDir := newTestService(t)
	ctx := context.Background()

	writeDump(t, dumpDir, "a.html", "http://a\n---URL---\n<body>hello</body>")
	_, err := svc.ColdStart(ctx)
	require.NoError(t, err)

	livePath := filepath.Join(svc.dataDir, liveFileName)
	require.FileExists(t, livePath)

	writeDump(t, dumpDir, "b.html", "http://b\n---URL---\n<body>world</body>")
	_, err = svc.Reindex(ctx)
	require.NoError(t, err)

	require.FileExists(t, livePath)
	require.NoFileExists(t, filepath.Join(svc.dataDir, shadowFileName))
}

func TestReindex_DedupSurvivesFailedDeleteAcrossCycles(t *testing.T) {
	svc, dumpDir := newTestService(t)
	ctx := context.Background()

	writeDump(t, dumpDir, "a.html", "http://a\n---URL---\n<body>hello world</body>")

	stats, err := svc.ColdStart(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.DocumentsIndexed)

	// Simulate a failed post-ingest delete: the file is still sitting
	// in the dump directory when the next cycle runs.
	writeDump(t, dumpDir, "a.html", "http://a\n---URL---\n<body>hello world</body>")

	stats, err = svc.Reindex(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.DocumentsIndexed, "the same path must not be re-walked by a later reindex cycle")

	n, err := svc.Current().CountDocuments(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestReindex_QueryableViaCurrentAfterSwap(t *testing.T) {
	svc, dumpDir := newTestService(t)
	ctx := context.Background()

	writeDump(t, dumpDir, "a.html", "http://a\n---URL---\n<body>hello</body>")
	_, err := svc.ColdStart(ctx)
	require.NoError(t, err)

	writeDump(t, dumpDir, "b.html", "http://b\n---URL---\n<body>world</body>")
	_, err = svc.Reindex(ctx)
	require.NoError(t, err)

	// Current must always resolve to a usable, open store after the
	// swap completes.
	_, ok, err := svc.Current().LookupTermID(ctx, "hello")
	require.NoError(t, err)
	require.True(t, ok)
}
