package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/go-playground/validator/v10"
)

// ReleaseURLBase prefixes every derived source URL.
const ReleaseURLBase = "https://www.discogs.com/release/"

var validate = validator.New()

// SchemaEnsurer brings storage up to the current schema.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// CatalogStore is the subset of the album repository a sync writes through.
type CatalogStore interface {
	CreateIfAbsent(ctx context.Context, album *models.Album) (bool, error)
	ReplaceAll(ctx context.Context, albums []models.Album) (int, error)
	Clear(ctx context.Context) (int64, error)
}

// ImportRequest selects whose collection to import and how.
type ImportRequest struct {
	AccountID string `json:"user_id" validate:"required"`
	Token     string `json:"token" validate:"required"`
	Overwrite bool   `json:"overwrite"`
}

// ImportResult summarizes a successful sync. It is never returned alongside an error.
type ImportResult struct {
	RunID     string        `json:"run_id"`
	NewCount  int           `json:"new_count"`
	Fetched   int           `json:"fetched"`
	Skipped   int           `json:"skipped"`
	Pages     int           `json:"pages"`
	Overwrite bool          `json:"overwrite"`
	Duration  time.Duration `json:"duration"`
}

// SyncOptions tunes paging and overwrite behaviour.
type SyncOptions struct {
	PerPage  int // releases per request; 0 means 100
	MaxPages int // 0 fetches until the collection is exhausted

	// BufferOverwrite fetches the whole collection before touching the catalog,
	// so a failed overwrite leaves the previous catalog in place.
	BufferOverwrite bool
}

// SyncOptionsFromConfig builds [SyncOptions] from loaded config.
func SyncOptionsFromConfig(cfg *shared.Config) SyncOptions {
	return SyncOptions{
		PerPage:         cfg.Discogs.PerPage,
		MaxPages:        cfg.Sync.MaxPages,
		BufferOverwrite: cfg.Sync.BufferOverwrite,
	}
}

// CollectionSync imports an external collection into the catalog.
//
// Runs are sequential and unguarded: two concurrent imports against the same database are a caller error.
type CollectionSync struct {
	schema SchemaEnsurer
	albums CatalogStore
	source services.CollectionSource
	opts   SyncOptions
	logger *log.Logger
}

// NewCollectionSync creates a CollectionSync. A nil logger discards output.
func NewCollectionSync(schema SchemaEnsurer, albums CatalogStore, source services.CollectionSource, opts SyncOptions, logger *log.Logger) *CollectionSync {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 100
	}
	return &CollectionSync{schema: schema, albums: albums, source: source, opts: opts, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (s *CollectionSync) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import runs one sync and returns the number of albums it added.
//
// Overwrite clears the catalog before the first fetch unless [SyncOptions.BufferOverwrite] is set,
// in which case a fetch failure leaves the catalog untouched.
func (s *CollectionSync) Import(ctx context.Context, req ImportRequest, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: user id and token are required", shared.ErrMissingCredentials)
	}

	started := time.Now()
	result := &ImportResult{RunID: shared.GenerateID(), Overwrite: req.Overwrite}
	logger := shared.WithLogger(s.logger, "run_id", result.RunID)

	fail := func(err error) (*ImportResult, error) {
		logger.Error("import failed", "phase", Failed, "err", err)
		s.sendProgress(progress, failedUpdate(err))
		return nil, err
	}

	logger.Info("starting import", "user", req.AccountID, "overwrite", req.Overwrite, "buffered", s.opts.BufferOverwrite)
	s.sendProgress(progress, startUpdate(req.AccountID, req.Overwrite))

	schemaErr := s.schema.EnsureSchema(ctx)
	if schemaErr != nil {
		logger.Error("schema ensure reported errors", "err", schemaErr)
	}
	s.sendProgress(progress, schemaReadyUpdate(schemaErr))

	if req.Overwrite && !s.opts.BufferOverwrite {
		removed, err := s.albums.Clear(ctx)
		if err != nil {
			return fail(&shared.PersistenceError{Op: "clear catalog", Err: err})
		}
		logger.Info("catalog cleared", "removed", removed)
		s.sendProgress(progress, clearedUpdate(removed))
	} else {
		s.sendProgress(progress, unchangedUpdate())
	}

	releases, pages, err := s.fetchAll(ctx, req, progress, logger)
	if err != nil {
		return fail(err)
	}
	result.Pages = pages
	result.Fetched = len(releases)

	albums := make([]models.Album, len(releases))
	for i, r := range releases {
		albums[i] = AlbumFromRelease(r)
	}

	if req.Overwrite {
		s.sendProgress(progress, replacingUpdate(len(albums)))
		count, err := s.albums.ReplaceAll(ctx, albums)
		if err != nil {
			return fail(&shared.PersistenceError{Op: "replace catalog", Err: err})
		}
		result.NewCount = count
	} else {
		for i := range albums {
			s.sendProgress(progress, mergingUpdate(i+1, len(albums), albums[i].Title))
			created, err := s.albums.CreateIfAbsent(ctx, &albums[i])
			if err != nil {
				return fail(&shared.PersistenceError{Op: "insert album " + albums[i].SourceURL, Err: err})
			}
			if created {
				result.NewCount++
			}
		}
	}

	result.Skipped = result.Fetched - result.NewCount
	result.Duration = time.Since(started)

	logger.Info("import complete", "new", result.NewCount, "fetched", result.Fetched, "skipped", result.Skipped, "pages", result.Pages, "duration", result.Duration)
	s.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// fetchAll requests pages sequentially until the source reports the last page or MaxPages is reached.
func (s *CollectionSync) fetchAll(ctx context.Context, req ImportRequest, progress chan<- ProgressUpdate, logger *log.Logger) ([]services.Release, int, error) {
	var (
		releases []services.Release
		pages    int
	)

	for page := 1; ; page++ {
		s.sendProgress(progress, fetchingUpdate(page, pages))

		p, err := s.source.FetchCollectionPage(ctx, req.AccountID, req.Token, page, s.opts.PerPage)
		if err != nil {
			var fetchErr *shared.ExternalFetchError
			if !errors.As(err, &fetchErr) {
				err = &shared.ExternalFetchError{Page: page, Err: err}
			}
			return nil, 0, err
		}

		pages = p.Pagination.Pages
		releases = append(releases, p.Releases...)
		logger.Debug("fetched page", "page", page, "pages", pages, "releases", len(p.Releases))

		if p.Last(page) || (s.opts.MaxPages > 0 && page >= s.opts.MaxPages) {
			return releases, page, nil
		}
	}
}

// SourceURL derives the dedup key for a release from its id and title.
//
// The same inputs always produce the same URL; an empty title yields "{base}{id}-".
func SourceURL(externalID int64, title string) string {
	return fmt.Sprintf("%s%d-%s", ReleaseURLBase, externalID, shared.Slugify(title))
}

// AlbumFromRelease maps a fetched release to a catalog album.
func AlbumFromRelease(r services.Release) models.Album {
	album := models.Album{
		ExternalID: r.ID,
		Artist:     r.Artists,
		Title:      r.Title,
		Year:       r.Year,
		SourceURL:  SourceURL(r.ID, r.Title),
	}
	if r.CoverImage != "" {
		cover := r.CoverImage
		album.CoverImage = &cover
	}
	return album
}
