package server

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vinyl/internal/models"
	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/desertthunder/vinyl/internal/tasks"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// AlbumStore reads the catalog.
type AlbumStore interface {
	ListSorted(ctx context.Context, field models.SortField, dir models.SortDirection) ([]models.Album, error)
	Search(ctx context.Context, query string, field models.SortField, dir models.SortDirection) ([]models.Album, error)
	Get(ctx context.Context, id int64) (*models.Album, error)
	Random(ctx context.Context) (*models.Album, error)
}

// Journal records and reads per-album history.
type Journal interface {
	MarkListened(ctx context.Context, albumID int64, comment string) (*models.Listening, error)
	AddNote(ctx context.Context, albumID int64, text, timestamp string) (*models.Note, error)
	Listenings(ctx context.Context, albumID int64, batches int) (*shared.Pager[models.Listening], error)
	History(ctx context.Context, albumID int64) (*tasks.History, error)
}

// Importer runs a collection sync.
type Importer interface {
	Import(ctx context.Context, req tasks.ImportRequest, progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)
}

// NewRandomLimiter allows 100 random-album requests per 15 minutes.
func NewRandomLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(15*time.Minute/100), 100)
}

// APIOpts contains dependencies for [API].
type APIOpts struct {
	Albums   AlbumStore
	Journal  Journal
	Importer Importer
	Logger   *log.Logger

	// Defaults fill user_id and token when an import request omits them.
	Defaults tasks.ImportRequest

	// RandomLimiter guards GET /albums/random. Defaults to [NewRandomLimiter].
	RandomLimiter *rate.Limiter
}

// API serves the catalog, history and import endpoints as JSON. It implements [Handler].
type API struct {
	albums   AlbumStore
	journal  Journal
	importer Importer
	logger   *log.Logger
	defaults tasks.ImportRequest
	limiter  *rate.Limiter
}

// NewAPI creates an API from opts.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.RandomLimiter == nil {
		opts.RandomLimiter = NewRandomLimiter()
	}
	return &API{
		albums:   opts.Albums,
		journal:  opts.Journal,
		importer: opts.Importer,
		logger:   opts.Logger,
		defaults: opts.Defaults,
		limiter:  opts.RandomLimiter,
	}
}

func (a *API) Routes() []Route {
	return []Route{
		{http.MethodGet, "/albums", a.listAlbums},
		{http.MethodGet, "/albums/random", RateLimit(a.limiter)(http.HandlerFunc(a.randomAlbum)).ServeHTTP},
		{http.MethodGet, "/albums/{id}", a.getAlbum},
		{http.MethodGet, "/albums/{id}/history", a.getHistory},
		{http.MethodGet, "/albums/{id}/listenings", a.listListenings},
		{http.MethodPost, "/albums/{id}/listenings", a.addListening},
		{http.MethodGet, "/albums/{id}/notes", a.listNotes},
		{http.MethodPost, "/albums/{id}/notes", a.addNote},
		{http.MethodPost, "/import", a.importCollection},
	}
}

// listAlbums handles GET /albums?sort=artist|title|year&order=asc|desc&q=
func (a *API) listAlbums(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	field, err := models.ParseSortField(q.Get("sort"))
	if err != nil {
		writeErr(w, err)
		return
	}
	dir, err := models.ParseSortDirection(q.Get("order"))
	if err != nil {
		writeErr(w, err)
		return
	}

	var albums []models.Album
	if search := q.Get("q"); search != "" {
		albums, err = a.albums.Search(r.Context(), search, field, dir)
	} else {
		albums, err = a.albums.ListSorted(r.Context(), field, dir)
	}
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"albums": albums, "count": len(albums), "sort": field, "order": dir})
}

func (a *API) getAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	album, err := a.albums.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (a *API) randomAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := a.albums.Random(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (a *API) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	history, err := a.journal.History(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// listListenings handles GET /albums/{id}/listenings?batches=n, revealing n batches of five (default 1).
func (a *API) listListenings(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	batches := 1
	if raw := r.URL.Query().Get("batches"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "batches must be a positive integer")
			return
		}
		batches = n
	}

	pager, err := a.journal.Listenings(r.Context(), id, batches)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"album_id":   id,
		"listenings": pager.Visible(),
		"shown":      pager.Shown(),
		"total":      pager.Total(),
		"has_more":   pager.HasMore(),
	})
}

type listeningPayload struct {
	Comment string `json:"comment" validate:"max=2000"`
}

// addListening handles POST /albums/{id}/listenings. The timestamp is always assigned by the server.
func (a *API) addListening(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	var payload listeningPayload
	if !decodeBody(w, r, &payload, true) || !validBody(w, payload) {
		return
	}

	listening, err := a.journal.MarkListened(r.Context(), id, payload.Comment)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listening)
}

func (a *API) listNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	history, err := a.journal.History(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"album_id": id, "notes": history.Notes})
}

type notePayload struct {
	Text      string `json:"text" validate:"required,max=10000"`
	Timestamp string `json:"timestamp"`
}

func (a *API) addNote(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	var payload notePayload
	if !decodeBody(w, r, &payload, false) || !validBody(w, payload) {
		return
	}

	note, err := a.journal.AddNote(r.Context(), id, payload.Text, payload.Timestamp)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// importCollection handles POST /import with a JSON or form body of user_id, token and overwrite.
//
// A failed sync responds 502 with the cause and never a count.
func (a *API) importCollection(w http.ResponseWriter, r *http.Request) {
	var req tasks.ImportRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req.AccountID = cmp.Or(r.PostForm.Get("user_id"), r.PostForm.Get("userId"))
		req.Token = r.PostForm.Get("token")
		req.Overwrite, _ = strconv.ParseBool(r.PostForm.Get("overwrite"))
	} else if !decodeBody(w, r, &req, true) {
		return
	}

	req.AccountID = cmp.Or(req.AccountID, a.defaults.AccountID)
	req.Token = cmp.Or(req.Token, a.defaults.Token)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "user_id and token are required")
		return
	}

	// A started sync runs to completion even if the client goes away.
	result, err := a.importer.Import(context.WithoutCancel(r.Context()), req, nil)
	if err != nil {
		a.logger.Error("import failed", "request_id", RequestIDFrom(r.Context()), "err", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("import failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"new_count": result.NewCount,
		"fetched":   result.Fetched,
		"skipped":   result.Skipped,
		"pages":     result.Pages,
		"overwrite": result.Overwrite,
		"run_id":    result.RunID,
		"message":   fmt.Sprintf("%d new album(s) imported successfully!", result.NewCount),
	})
}

func albumID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "album id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON body into v. An empty body is accepted when optional.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil && !(optional && errors.Is(err, io.EOF)) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// validBody checks the validate tags on v and writes a 400 naming the first failing field.
func validBody(w http.ResponseWriter, v any) bool {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s failed %q validation", strings.ToLower(verrs[0].Field()), verrs[0].Tag()))
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps domain errors to status codes.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrAlbumNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrInvalidSort),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

