package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/desertthunder/vinyl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import syncs the Discogs collection into the local catalog.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	req := tasks.ImportRequest{
		AccountID: r.config.Discogs.UserID,
		Token:     r.config.Discogs.Token,
		Overwrite: cmd.Bool("overwrite"),
	}
	if user := cmd.String("user"); user != "" {
		req.AccountID = user
	}
	if token := cmd.String("token"); token != "" {
		req.Token = token
	}
	if req.AccountID == "" || req.Token == "" {
		return fmt.Errorf("%w: set discogs.user_id and %s, or pass --user and --token", shared.ErrMissingCredentials, shared.TokenEnv)
	}

	r.logger.Info("starting import", "user", req.AccountID, "overwrite", req.Overwrite)
	r.writePlain("Importing collection for %s...\n", req.AccountID)
	if req.Overwrite {
		r.writePlain("Mode: overwrite (the catalog will be replaced)\n\n")
	} else {
		r.writePlain("Mode: incremental\n\n")
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Cleared:
				r.writePlain("🗑  %s\n", update.Message)
			case tasks.Fetching:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Merging:
				if update.Step == 0 || update.Step == update.Total {
					r.writePlain("💾 %s\n", update.Message)
				}
			case tasks.Failed:
				r.writePlain("✗ %s\n", update.Message)
			}
		}
	}()

	result, err := r.sync.Import(ctx, req, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("New albums: %d\n", result.NewCount)
	r.writePlain("Fetched: %d across %d page(s)\n", result.Fetched, result.Pages)
	if result.Skipped > 0 {
		r.writePlain("Already in catalog: %d\n", result.Skipped)
	}
	r.writePlain("Duration: %s\n", result.Duration.Round(time.Millisecond))
	return nil
}
