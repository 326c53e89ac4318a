// Command corpusindex is the single executable for the TF-IDF search
// engine: it ingests a dump directory into a persistent index and
// serves ranked queries over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/corpusindex/engine/internal/cli"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
