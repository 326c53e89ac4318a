// Package indexsvc hosts the Shadow-Swap Coordinator: it performs a
// full reindex of the dump directory without ever taking the live
// store offline for readers.
package indexsvc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/corpusindex/engine/internal/pool"
	"github.com/corpusindex/engine/internal/spider"
	"github.com/corpusindex/engine/internal/store"
	"github.com/corpusindex/engine/internal/store/sqlite"
	"github.com/corpusindex/engine/internal/tfidf"
)

// State names the coordinator's position in the swap protocol.
type State int

const (
	// LiveOnly is the steady state: queries and writes go straight to
	// the live store, no shadow exists.
	LiveOnly State = iota
	// ShadowWriting means a shadow store exists and ingestion is
	// running against it; readers are redirected to the shadow.
	ShadowWriting
	// Swapping is the narrow window where the pool is drained and the
	// live file is being replaced by the shadow file.
	Swapping
)

const liveFileName = "document_store.db"
const shadowFileName = "temp_document_store.db"

// Service owns the live store reference and coordinates reindexing.
// Readers call Current to fetch whichever store (live or shadow) is
// authoritative at the moment of the call.
type Service struct {
	dataDir string
	dumpDir string
	pool    *pool.Pool
	log     zerolog.Logger
	spider  *spider.Spider

	current atomic.Pointer[store.Store]

	mu    sync.Mutex
	state State
}

// Open opens (creating if absent) the live store at
// <dataDir>/document_store.db and returns a Service over it.
func Open(dataDir, dumpDir string, p *pool.Pool, log zerolog.Logger) (*Service, error) {
	s, err := sqlite.New(filepath.Join(dataDir, liveFileName))
	if err != nil {
		return nil, fmt.Errorf("indexsvc: open live store: %w", err)
	}
	if err := s.Ensure(context.Background()); err != nil {
		return nil, fmt.Errorf("indexsvc: migrate live store: %w", err)
	}

	svc := &Service{dataDir: dataDir, dumpDir: dumpDir, pool: p, log: log, spider: spider.New(log)}
	var iface store.Store = s
	svc.current.Store(&iface)
	return svc, nil
}

// Current returns the store that reads and writes should target right
// now: the live store, or the shadow store during ShadowWriting.
func (s *Service) Current() store.Store {
	return *s.current.Load()
}

// State reports the coordinator's current position in the swap
// protocol, for diagnostics.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ColdStart runs a direct ingestion pass against the live store with
// no shadow involved, for the case where the store has no documents
// yet and there are no readers to protect.
func (s *Service) ColdStart(ctx context.Context) (spider.Stats, error) {
	stats, err := s.spider.ReindexBatch(ctx, s.Current(), s.dumpDir)
	if err != nil {
		return stats, err
	}
	if err := tfidf.Run(ctx, s.Current()); err != nil {
		return stats, fmt.Errorf("indexsvc: cold start tfidf pass: %w", err)
	}
	return stats, nil
}

// Reindex performs the full shadow-swap protocol:
//  1. clone the live store file to a shadow file
//  2. open the shadow, flip reads/writes onto it (ShadowWriting)
//  3. run ingestion, then TF-IDF, against the shadow
//  4. pause and drain the pool (Swapping)
//  5. replace the live file with the shadow file, reopen as live
//  6. clear the shadow state and resume the pool
//
// Failure before step 4 aborts cleanly: the shadow file is deleted
// and the live store remains authoritative. Failure between step 4
// and the rename is the one non-atomic window the protocol accepts;
// recovery on restart is to reopen whichever file is present at the
// live path.
func (s *Service) Reindex(ctx context.Context) (spider.Stats, error) {
	var stats spider.Stats

	liveStore, ok := s.Current().(*sqlite.Store)
	if !ok {
		return stats, fmt.Errorf("indexsvc: current store is not backed by sqlite")
	}

	s.setState(ShadowWriting)
	shadowPath := filepath.Join(s.dataDir, shadowFileName)

	if err := liveStore.Clone(ctx, shadowPath); err != nil {
		s.abortShadow(shadowPath)
		return stats, fmt.Errorf("indexsvc: clone live store: %w", err)
	}

	shadowStore, err := sqlite.New(shadowPath)
	if err != nil {
		s.abortShadow(shadowPath)
		return stats, fmt.Errorf("indexsvc: open shadow store: %w", err)
	}

	var shadowIface store.Store = shadowStore
	s.current.Store(&shadowIface)

	stats, err = s.spider.ReindexBatch(ctx, shadowStore, s.dumpDir)
	if err != nil {
		s.rollbackShadow(liveStore, shadowStore, shadowPath)
		return stats, fmt.Errorf("indexsvc: ingest shadow: %w", err)
	}

	if err := tfidf.Run(ctx, shadowStore); err != nil {
		s.rollbackShadow(liveStore, shadowStore, shadowPath)
		return stats, fmt.Errorf("indexsvc: tfidf shadow: %w", err)
	}

	s.setState(Swapping)
	s.pool.Pause()
	s.pool.Drain()

	if err := s.swapFiles(liveStore, shadowStore, shadowPath); err != nil {
		s.pool.Resume()
		s.setState(ShadowWriting)
		return stats, fmt.Errorf("indexsvc: swap files: %w", err)
	}

	s.setState(LiveOnly)
	s.pool.Resume()

	return stats, nil
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

// abortShadow is the recovery path for failures before the shadow
// store has replaced the live pointer: delete the partial shadow
// file and fall back to LiveOnly.
func (s *Service) abortShadow(shadowPath string) {
	_ = os.Remove(shadowPath)
	s.setState(LiveOnly)
}

// rollbackShadow is the recovery path once the current pointer has
// already been switched to the shadow: restore the live store as
// current, then clean up the abandoned shadow.
func (s *Service) rollbackShadow(liveStore *sqlite.Store, shadowStore *sqlite.Store, shadowPath string) {
	var liveIface store.Store = liveStore
	s.current.Store(&liveIface)
	_ = shadowStore.Close()
	_ = os.Remove(shadowPath)
	s.setState(LiveOnly)
}

// swapFiles executes the only non-atomic window in the protocol: the
// pool is already paused and drained by the caller, so no other
// goroutine holds a handle to the live file.
func (s *Service) swapFiles(liveStore, shadowStore *sqlite.Store, shadowPath string) error {
	livePath := liveStore.Path()

	if err := liveStore.Close(); err != nil {
		return fmt.Errorf("close live store: %w", err)
	}
	if err := shadowStore.Close(); err != nil {
		return fmt.Errorf("close shadow store: %w", err)
	}

	if err := os.Remove(livePath); err != nil {
		return fmt.Errorf("remove old live file: %w", err)
	}
	if err := os.Rename(shadowPath, livePath); err != nil {
		return fmt.Errorf("rename shadow to live: %w", err)
	}

	reopened, err := sqlite.New(livePath)
	if err != nil {
		return fmt.Errorf("reopen live store: %w", err)
	}

	var liveIface store.Store = reopened
	s.current.Store(&liveIface)
	return nil
}
