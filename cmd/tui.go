package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/desertthunder/vinyl/internal/tasks"
	"github.com/desertthunder/vinyl/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.ModelOpts{
		Catalog:  r.albums,
		Journal:  r.journal,
		Importer: r.sync,
		Import: tasks.ImportRequest{
			AccountID: r.config.Discogs.UserID,
			Token:     r.config.Discogs.Token,
		},
		Location: time.Local,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
