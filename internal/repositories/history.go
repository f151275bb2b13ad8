package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
)

// HistoryRepository stores listenings and notes. Rows are never updated or deleted.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// AppendListening records a listening of albumID at listenedAt.
//
// A blank comment is stored as [models.DefaultComment]. Returns [shared.ErrAlbumNotFound] when the album does not exist.
func (r *HistoryRepository) AppendListening(ctx context.Context, albumID int64, listenedAt time.Time, comment string) (*models.Listening, error) {
	if strings.TrimSpace(comment) == "" {
		comment = models.DefaultComment
	}

	query := `
		INSERT INTO listenings (album_id, listened_at, comment)
		SELECT ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM albums WHERE id = ?)
	`

	id, err := r.insertChecked(ctx, query, albumID, formatTime(listenedAt), comment, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert listening: %w", err)
	}

	return &models.Listening{ID: id, AlbumID: albumID, ListenedAt: listenedAt.UTC(), Comment: comment}, nil
}

// AppendNote records a note on albumID. timestamp is stored as given.
//
// Returns [shared.ErrAlbumNotFound] when the album does not exist.
func (r *HistoryRepository) AppendNote(ctx context.Context, albumID int64, text, timestamp string) (*models.Note, error) {
	query := `
		INSERT INTO notes (album_id, text, timestamp)
		SELECT ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM albums WHERE id = ?)
	`

	id, err := r.insertChecked(ctx, query, albumID, text, timestamp, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	return &models.Note{ID: id, AlbumID: albumID, Text: text, Timestamp: timestamp}, nil
}

// ListListenings returns the album's listenings, most recent first.
func (r *HistoryRepository) ListListenings(ctx context.Context, albumID int64) ([]models.Listening, error) {
	query := `
		SELECT id, album_id, listened_at, comment
		FROM listenings
		WHERE album_id = ?
		ORDER BY listened_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query listenings: %w", err)
	}
	defer rows.Close()

	listenings := []models.Listening{}
	for rows.Next() {
		var (
			l          models.Listening
			listenedAt string
			comment    sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.AlbumID, &listenedAt, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan listening: %w", err)
		}

		if l.ListenedAt, err = parseTime(listenedAt); err != nil {
			return nil, fmt.Errorf("invalid listened_at %q on listening %d: %w", listenedAt, l.ID, err)
		}

		l.Comment = models.DefaultComment
		if comment.Valid && comment.String != "" {
			l.Comment = comment.String
		}
		listenings = append(listenings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return listenings, nil
}

// ListNotes returns the album's notes in insertion order.
func (r *HistoryRepository) ListNotes(ctx context.Context, albumID int64) ([]models.Note, error) {
	query := `
		SELECT id, album_id, text, timestamp
		FROM notes
		WHERE album_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.AlbumID, &n.Text, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return notes, nil
}

// insertChecked runs an INSERT ... WHERE EXISTS statement and maps "no row inserted" to [shared.ErrAlbumNotFound].
func (r *HistoryRepository) insertChecked(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return 0, fmt.Errorf("%w: %d", shared.ErrAlbumNotFound, args[0])
	}

	return result.LastInsertId()
}
