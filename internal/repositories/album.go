package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
)

var albumColumns = []string{"id", "external_id", "artist", "title", "year", "cover_image", "discogs_url"}

// AlbumRepository is the catalog store.
//
// It owns album identity (the surrogate id) and the unique index over discogs_url, which is the dedup key.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Exists reports whether a committed album has the given source URL.
func (r *AlbumRepository) Exists(ctx context.Context, sourceURL string) (bool, error) {
	query, args, err := builder.Select("1").From("albums").Where(sq.Eq{"discogs_url": sourceURL}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check album existence: %w", err)
	}
	return true, nil
}

// Create inserts album and sets its ID.
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	return insertAlbum(ctx, r.db, album, "")
}

// CreateIfAbsent inserts album unless one with the same source URL exists.
//
// Existing rows are never updated. Returns true only when a row was inserted.
func (r *AlbumRepository) CreateIfAbsent(ctx context.Context, album *models.Album) (bool, error) {
	exists, err := r.Exists(ctx, album.SourceURL)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := r.Create(ctx, album); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReplaceAll deletes every album and inserts albums in order, in one transaction.
//
// Albums sharing a source URL replace each other, so the last one wins.
// Returns the number of albums in the catalog afterwards.
func (r *AlbumRepository) ReplaceAll(ctx context.Context, albums []models.Album) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM albums"); err != nil {
		return 0, fmt.Errorf("failed to clear albums: %w", err)
	}

	for i := range albums {
		if err := insertAlbum(ctx, tx, &albums[i], "OR REPLACE"); err != nil {
			return 0, err
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM albums").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit replace: %w", err)
	}
	return count, nil
}

// Clear deletes every album and returns how many were removed.
func (r *AlbumRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM albums")
	if err != nil {
		return 0, fmt.Errorf("failed to clear albums: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// Count returns the number of albums in the catalog.
func (r *AlbumRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM albums").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return count, nil
}

// Get retrieves an album by local id.
func (r *AlbumRepository) Get(ctx context.Context, id int64) (*models.Album, error) {
	query, args, err := builder.Select(albumColumns...).From("albums").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrAlbumNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// Random returns one album chosen uniformly at random.
func (r *AlbumRepository) Random(ctx context.Context) (*models.Album, error) {
	query, args, err := builder.Select(albumColumns...).From("albums").OrderBy("RANDOM()").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: catalog is empty", shared.ErrAlbumNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// List returns every album in insertion order.
func (r *AlbumRepository) List(ctx context.Context) ([]models.Album, error) {
	query, args, err := builder.Select(albumColumns...).From("albums").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := []models.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return albums, nil
}

// ListSorted returns every album ordered by field and dir.
//
// Ordering is applied with the comparator for the pair, never by building ORDER BY from input.
func (r *AlbumRepository) ListSorted(ctx context.Context, field models.SortField, dir models.SortDirection) ([]models.Album, error) {
	cmp, err := models.Comparator(field, dir)
	if err != nil {
		return nil, err
	}

	albums, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(albums, cmp)
	return albums, nil
}

// Search returns sorted albums whose artist or title contains query, ignoring case.
func (r *AlbumRepository) Search(ctx context.Context, query string, field models.SortField, dir models.SortDirection) ([]models.Album, error) {
	albums, err := r.ListSorted(ctx, field, dir)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(albums, func(a models.Album) bool { return !a.Matches(query) }), nil
}

func insertAlbum(ctx context.Context, q Querier, album *models.Album, option string) error {
	insert := builder.Insert("albums").
		Columns("external_id", "artist", "title", "year", "cover_image", "discogs_url").
		Values(album.ExternalID, album.Artist, album.Title, nullInt(album.Year), nullString(album.CoverImage), album.SourceURL)
	if option != "" {
		insert = insert.Options(option)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read album id: %w", err)
	}
	album.ID = id
	return nil
}

// scanAlbum scans a single row into a [models.Album]
func scanAlbum(row rowScanner) (models.Album, error) {
	var (
		album      models.Album
		externalID sql.NullInt64
		artist     sql.NullString
		title      sql.NullString
		year       sql.NullInt64
		coverImage sql.NullString
	)

	err := row.Scan(&album.ID, &externalID, &artist, &title, &year, &coverImage, &album.SourceURL)
	if errors.Is(err, sql.ErrNoRows) {
		return album, err
	}
	if err != nil {
		return album, fmt.Errorf("failed to scan album: %w", err)
	}

	album.ExternalID = externalID.Int64
	album.Artist = artist.String
	album.Title = title.String
	if year.Valid {
		y := int(year.Int64)
		album.Year = &y
	}
	if coverImage.Valid {
		album.CoverImage = &coverImage.String
	}
	return album, nil
}
