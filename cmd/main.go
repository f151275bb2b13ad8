package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Error("application error", "error", err)
		os.Exit(exitCode(err))
	}
	runner.Close()
}

// newApp builds the root command. Its Before hook loads config and opens storage for every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "vinyl",
		Usage:   "Sync a Discogs record collection and keep a listening journal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.open,
		Commands: r.register(),
	}
}
