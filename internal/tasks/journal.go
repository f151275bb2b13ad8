package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
)

// AlbumFinder looks up a single album.
type AlbumFinder interface {
	Get(ctx context.Context, id int64) (*models.Album, error)
}

// HistoryStore is the append-only listening and note log.
type HistoryStore interface {
	AppendListening(ctx context.Context, albumID int64, listenedAt time.Time, comment string) (*models.Listening, error)
	AppendNote(ctx context.Context, albumID int64, text, timestamp string) (*models.Note, error)
	ListListenings(ctx context.Context, albumID int64) ([]models.Listening, error)
	ListNotes(ctx context.Context, albumID int64) ([]models.Note, error)
}

// History is one album with everything recorded against it.
type History struct {
	Album      *models.Album      `json:"album"`
	Listenings []models.Listening `json:"listenings"`
	Notes      []models.Note      `json:"notes"`
}

// Journal records listenings and notes with server-side timestamps.
type Journal struct {
	albums  AlbumFinder
	history HistoryStore
	now     func() time.Time
}

// NewJournal creates a Journal.
func NewJournal(albums AlbumFinder, history HistoryStore) *Journal {
	return &Journal{albums: albums, history: history, now: time.Now}
}

// MarkListened records that albumID was played now.
func (j *Journal) MarkListened(ctx context.Context, albumID int64, comment string) (*models.Listening, error) {
	return j.history.AppendListening(ctx, albumID, j.now().UTC(), comment)
}

// AddNote attaches text to albumID. An empty timestamp is filled with the current time.
func (j *Journal) AddNote(ctx context.Context, albumID int64, text, timestamp string) (*models.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: note text is empty", shared.ErrInvalidInput)
	}
	if timestamp == "" {
		timestamp = j.now().UTC().Format(time.RFC3339)
	}
	return j.history.AppendNote(ctx, albumID, text, timestamp)
}

// History fetches the album and its full history snapshot, listenings newest first.
func (j *Journal) History(ctx context.Context, albumID int64) (*History, error) {
	album, err := j.albums.Get(ctx, albumID)
	if err != nil {
		return nil, err
	}

	listenings, err := j.history.ListListenings(ctx, albumID)
	if err != nil {
		return nil, err
	}

	notes, err := j.history.ListNotes(ctx, albumID)
	if err != nil {
		return nil, err
	}

	return &History{Album: album, Listenings: listenings, Notes: notes}, nil
}

// Listenings returns a [shared.Pager] over the album's listenings with batches revealed.
func (j *Journal) Listenings(ctx context.Context, albumID int64, batches int) (*shared.Pager[models.Listening], error) {
	if _, err := j.albums.Get(ctx, albumID); err != nil {
		return nil, err
	}

	listenings, err := j.history.ListListenings(ctx, albumID)
	if err != nil {
		return nil, err
	}

	pager := shared.NewPager(listenings, shared.HistoryBatchSize)
	pager.Reveal(batches)
	return pager, nil
}
