package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/vinyl/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Listen records a listening for an album, stamped with the current time.
func (r *Runner) Listen(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	id, err := parseAlbumID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	listening, err := r.journal.MarkListened(ctx, id, cmd.StringArg("comment"))
	if err != nil {
		return err
	}

	r.logger.Debug("listening recorded", "album_id", id, "listening_id", listening.ID)
	return r.writePlain("✓ %s\n", formatter.FormatListening(*listening, time.Local))
}

// Note attaches a free-text note to an album.
func (r *Runner) Note(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	id, err := parseAlbumID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	note, err := r.journal.AddNote(ctx, id, cmd.StringArg("text"), cmd.String("timestamp"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ %s\n", formatter.FormatNote(*note))
}

// History prints an album's listenings newest first, five at a time, followed by its notes.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	id, err := parseAlbumID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	history, err := r.journal.History(ctx, id)
	if err != nil {
		return err
	}

	if path := cmd.String("export"); path != "" {
		data := formatter.ExportHistory(*history.Album, history.Listenings, history.Notes, time.Local)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write history export: %w", err)
		}
		return r.writePlain("✓ History exported to %s\n", path)
	}

	pager, err := r.journal.Listenings(ctx, id, 1+cmd.Int("more"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		history.Listenings = pager.Visible()
		return r.writeJSON(history, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", history.Album.Artist, history.Album.Title))
	r.writePlain("Listening History (%d/%d)\n", pager.Shown(), pager.Total())
	if pager.Total() == 0 {
		r.writePlain("  No listening history.\n")
	}
	for _, l := range pager.Visible() {
		r.writePlain("  %s\n", formatter.FormatListening(l, time.Local))
	}
	if pager.HasMore() {
		r.writePlain("  ... %d more (use --more %d)\n", pager.Remaining(), cmd.Int("more")+1)
	}

	if len(history.Notes) > 0 {
		r.writePlain("\nNotes\n")
		for _, n := range history.Notes {
			r.writePlain("  %s\n", formatter.FormatNote(n))
		}
	}
	return nil
}
