// Package cli provides the corpusindex command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version and Commit are set from main via ldflags.
	Version = "dev"
	Commit  = "unknown"
)

var (
	dumpDir         string
	dataDir         string
	publicDir       string
	addr            string
	workers         int
	logLevel        string
	reindexInterval string
)

// Execute runs the CLI against ctx, which is canceled on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:           "corpusindex",
		Short:         "corpusindex - TF-IDF full-text search over a dump directory",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dumpDir, "dump-dir", "./dump", "directory of HTML dump files to ingest")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "directory holding the persistent index store")
	root.PersistentFlags().StringVar(&publicDir, "public-dir", "./public", "directory of static files served at /")
	root.PersistentFlags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	root.PersistentFlags().IntVar(&workers, "workers", 4, "number of worker pool threads")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&reindexInterval, "reindex-interval", "0", "periodic reindex cadence (e.g. 5m); 0 means startup only")

	root.AddCommand(newServeCmd())

	if err := fang.Execute(ctx, root, fang.WithVersion(Version), fang.WithCommit(Commit)); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		return err
	}
	return nil
}
