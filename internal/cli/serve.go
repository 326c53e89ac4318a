package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/corpusindex/engine/internal/httpapi"
	"github.com/corpusindex/engine/internal/indexsvc"
	"github.com/corpusindex/engine/internal/pool"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the search server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	for _, dir := range []string{dumpDir, dataDir, publicDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	interval, err := time.ParseDuration(reindexInterval)
	if err != nil {
		return fmt.Errorf("invalid --reindex-interval %q: %w", reindexInterval, err)
	}

	p := pool.New(workers)
	defer p.Shutdown()

	svc, err := indexsvc.Open(dataDir, dumpDir, p, log)
	if err != nil {
		return fmt.Errorf("open index service: %w", err)
	}

	documentCount, err := svc.Current().CountDocuments(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	if documentCount == 0 {
		log.Info().Msg("cold start: no documents in store, ingesting directly")
		stats, err := svc.ColdStart(ctx)
		if err != nil {
			return fmt.Errorf("cold start ingestion: %w", err)
		}
		log.Info().
			Int("files_seen", stats.FilesSeen).
			Int("documents_indexed", stats.DocumentsIndexed).
			Int("files_skipped", stats.FilesSkipped).
			Int("errors", stats.Errors).
			Msg("cold start ingestion complete")
	} else {
		log.Info().Int64("documents", documentCount).Msg("existing index found, running shadow-swap reindex")
		if stats, err := svc.Reindex(ctx); err != nil {
			log.Error().Err(err).Msg("startup reindex failed, serving existing index")
		} else {
			log.Info().
				Int("files_seen", stats.FilesSeen).
				Int("documents_indexed", stats.DocumentsIndexed).
				Msg("startup reindex complete")
		}
	}

	srv := httpapi.New(addr, publicDir, svc, p, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	var ticker *time.Ticker
	var tickCh <-chan time.Time
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	log.Info().Str("addr", addr).Msg("corpusindex serving")

	for {
		select {
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("http server failed")
				return err
			}
			return nil

		case <-tickCh:
			log.Info().Msg("periodic reindex triggered")
			if _, err := svc.Reindex(ctx); err != nil {
				log.Error().Err(err).Msg("periodic reindex failed")
			}

		case <-ctx.Done():
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown incomplete")
			}
			return nil
		}
	}
}
