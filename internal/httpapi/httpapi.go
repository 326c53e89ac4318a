// Package httpapi is the thin external HTTP front end: it decodes
// requests, dispatches the actual work onto the worker pool, and
// renders responses. It contains no ranking or indexing logic.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/corpusindex/engine/internal/indexsvc"
	"github.com/corpusindex/engine/internal/pool"
	"github.com/corpusindex/engine/internal/query"
)

// Server wires the search engine's public HTTP surface.
type Server struct {
	svc        *indexsvc.Service
	pool       *pool.Pool
	publicDir  string
	log        zerolog.Logger
	httpServer *http.Server
}

// New builds a Server serving static files from publicDir and
// dispatching searches through svc and pool.
func New(addr, publicDir string, svc *indexsvc.Service, p *pool.Pool, log zerolog.Logger) *Server {
	s := &Server{svc: svc, pool: p, publicDir: publicDir, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts the server and blocks until it stops. It
// returns nil after a graceful Shutdown and the server's error
// otherwise.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server starting")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting up to the context
// deadline for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	indexPath := filepath.Join(s.publicDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, indexPath)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type searchResult struct {
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	TookMs  int64          `json:"took_ms"`
}

// handleSearch decodes ?q=, dispatches the search as a task on the
// worker pool, and renders the ranked result list as JSON. The
// handler goroutine blocks on a buffered channel while a pool worker
// runs the query, so each search occupies exactly one worker for its
// duration.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing required query parameter q", http.StatusBadRequest)
		return
	}

	type outcome struct {
		hits []searchResult
		err  error
	}
	resultCh := make(chan outcome, 1)
	start := time.Now()

	err := s.pool.Submit(func() {
		hits, err := query.Search(r.Context(), s.svc.Current(), q)
		if err != nil {
			resultCh <- outcome{err: err}
			return
		}
		out := make([]searchResult, 0, len(hits))
		for _, h := range hits {
			out = append(out, searchResult{URL: h.DocumentName, Score: h.Score})
		}
		resultCh <- outcome{hits: out}
	})
	if err != nil {
		http.Error(w, "service is shutting down", http.StatusServiceUnavailable)
		return
	}

	select {
	case res := <-resultCh:
		if res.err != nil {
			s.log.Error().Err(res.err).Str("query", q).Msg("search failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, searchResponse{Results: res.hits, TookMs: time.Since(start).Milliseconds()})
	case <-r.Context().Done():
		http.Error(w, "request canceled", http.StatusRequestTimeout)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
