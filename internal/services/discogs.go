// Discogs API implementation of [CollectionSource]
//
// Response types based on https://www.discogs.com/developers#page:user-collection
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/desertthunder/vinyl/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	discogsBaseURL   = "https://api.discogs.com"
	discogsTokenType = "Discogs"
	defaultPerPage   = 100
)

// disambiguation matches the numeric suffix Discogs appends to artists sharing a name, e.g. "Nirvana (2)".
var disambiguation = regexp.MustCompile(`\s+\(\d+\)$`)

type discogsArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	ANV  string `json:"anv"`
}

type basicInformation struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Year       int             `json:"year"`
	CoverImage string          `json:"cover_image"`
	Thumb      string          `json:"thumb"`
	Artists    []discogsArtist `json:"artists"`
}

// DiscogsRelease is one entry of a collection folder.
type DiscogsRelease struct {
	ID               int64            `json:"id"`
	InstanceID       int64            `json:"instance_id"`
	DateAdded        string           `json:"date_added"`
	Rating           int              `json:"rating"`
	BasicInformation basicInformation `json:"basic_information"`
}

// DiscogsCollection is the response body of the collection folder releases endpoint.
type DiscogsCollection struct {
	Pagination Pagination       `json:"pagination"`
	Releases   []DiscogsRelease `json:"releases"`
}

// DiscogsService implements [CollectionSource] for the Discogs API.
//
// Requests carry the user token in an "Authorization: Discogs token=..." header via [oauth2.Transport],
// are throttled by a shared [rate.Limiter] and bounded by a per-request timeout.
type DiscogsService struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	transport http.RoundTripper
}

// NewDiscogsService creates a Discogs client from config. Zero values fall back to defaults.
func NewDiscogsService(cfg shared.DiscogsConfig) *DiscogsService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = discogsBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	return &DiscogsService{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout(),
		limiter:   rate.NewLimiter(limit, 1),
		transport: http.DefaultTransport,
	}
}

// SetTransport replaces the base [http.RoundTripper] beneath the token transport.
func (d *DiscogsService) SetTransport(rt http.RoundTripper) {
	d.transport = rt
}

func (d *DiscogsService) Name() string {
	return "Discogs"
}

// client returns an [http.Client] that authenticates every request with token.
func (d *DiscogsService) client(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: "token=" + token,
		TokenType:   discogsTokenType,
	})
	return &http.Client{Transport: &oauth2.Transport{Source: src, Base: d.transport}}
}

// FetchCollectionPage retrieves one page of the user's "All" folder (folder 0).
func (d *DiscogsService) FetchCollectionPage(ctx context.Context, userID, token string, page, perPage int) (*CollectionPage, error) {
	if userID == "" || token == "" {
		return nil, fmt.Errorf("%w: discogs user id and token are required", shared.ErrMissingCredentials)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > defaultPerPage {
		perPage = defaultPerPage
	}

	var collection DiscogsCollection
	endpoint := fmt.Sprintf("/users/%s/collection/folders/0/releases?page=%d&per_page=%d", url.PathEscape(userID), page, perPage)
	if err := d.doRequest(ctx, token, endpoint, &collection); err != nil {
		var fetchErr *shared.ExternalFetchError
		if errors.As(err, &fetchErr) {
			fetchErr.Page = page
		}
		return nil, err
	}

	result := &CollectionPage{Pagination: collection.Pagination, Releases: make([]Release, 0, len(collection.Releases))}
	for _, r := range collection.Releases {
		result.Releases = append(result.Releases, r.Release())
	}
	return result, nil
}

// doRequest performs an authenticated GET against the Discogs API and decodes the JSON body into result.
func (d *DiscogsService) doRequest(ctx context.Context, token, endpoint string, result any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return &shared.ExternalFetchError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client(token).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &shared.ExternalFetchError{Err: fmt.Errorf("%w after %s", shared.ErrTimeout, d.timeout)}
		}
		return &shared.ExternalFetchError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cause := shared.ErrServiceUnavailable
		if resp.StatusCode < 500 {
			cause = fmt.Errorf("discogs API error: %s", http.StatusText(resp.StatusCode))
		}
		return &shared.ExternalFetchError{StatusCode: resp.StatusCode, Err: cause}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &shared.ExternalFetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)}
	}
	return nil
}

// Release maps the collection entry to a [Release].
func (r DiscogsRelease) Release() Release {
	info := r.BasicInformation

	id := info.ID
	if id == 0 {
		id = r.ID
	}

	var year *int
	if info.Year > 0 {
		y := info.Year
		year = &y
	}

	cover := info.CoverImage
	if cover == "" {
		cover = info.Thumb
	}

	return Release{ID: id, Title: info.Title, Artists: joinArtists(info.Artists), Year: year, CoverImage: cover}
}

func joinArtists(artists []discogsArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		name := strings.TrimSpace(disambiguation.ReplaceAllString(a.Name, ""))
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
