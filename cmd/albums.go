package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinyl/internal/formatter"
	"github.com/desertthunder/vinyl/internal/models"
	"github.com/urfave/cli/v3"
)

// AlbumsList prints the catalog in the requested order.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	field, dir, err := sortFlags(cmd)
	if err != nil {
		return err
	}

	albums, err := r.albums.ListSorted(ctx, field, dir)
	if err != nil {
		return err
	}

	return r.printAlbums(albums, cmd.Bool("json"))
}

// AlbumsSearch prints albums whose artist or title contains the query.
func (r *Runner) AlbumsSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	field, dir, err := sortFlags(cmd)
	if err != nil {
		return err
	}

	albums, err := r.albums.Search(ctx, cmd.StringArg("query"), field, dir)
	if err != nil {
		return err
	}

	return r.printAlbums(albums, cmd.Bool("json"))
}

// AlbumsShow prints a single album.
func (r *Runner) AlbumsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	id, err := parseAlbumID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	album, err := r.albums.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.printAlbum(album, cmd.Bool("json"))
}

// AlbumsRandom prints a random album from the catalog.
func (r *Runner) AlbumsRandom(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	album, err := r.albums.Random(ctx)
	if err != nil {
		return err
	}

	return r.printAlbum(album, cmd.Bool("json"))
}

// AlbumsExport writes the sorted catalog to a file.
func (r *Runner) AlbumsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	field, dir, err := sortFlags(cmd)
	if err != nil {
		return err
	}

	albums, err := r.albums.ListSorted(ctx, field, dir)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(albums, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("catalog exported", "path", path, "albums", len(albums), "format", format)
	return r.writePlain("✓ Exported %d album(s) to %s\n", len(albums), path)
}

func (r *Runner) printAlbums(albums []models.Album, asJSON bool) error {
	if asJSON {
		return r.writeJSON(albums, true)
	}

	if len(albums) == 0 {
		return r.writePlain("No albums in the catalog. Run 'vinyl import' first.\n")
	}

	r.writePlain("Albums (%d):\n\n", len(albums))
	for _, a := range albums {
		r.writePlain("%5d  %s - %s (%s)\n", a.ID, a.Artist, a.Title, a.YearString())
	}
	return nil
}

func (r *Runner) printAlbum(album *models.Album, asJSON bool) error {
	if asJSON {
		return r.writeJSON(album, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", album.Artist, album.Title))
	r.writePlain("ID: %d\n", album.ID)
	r.writePlain("Year: %s\n", album.YearString())
	r.writePlain("Discogs: %s\n", album.SourceURL)
	if album.CoverImage != nil && *album.CoverImage != "" {
		r.writePlain("Cover: %s\n", *album.CoverImage)
	}
	return nil
}

func sortFlags(cmd *cli.Command) (models.SortField, models.SortDirection, error) {
	field, err := models.ParseSortField(cmd.String("sort"))
	if err != nil {
		return "", "", err
	}
	dir, err := models.ParseSortDirection(cmd.String("order"))
	if err != nil {
		return "", "", err
	}
	return field, dir, nil
}
