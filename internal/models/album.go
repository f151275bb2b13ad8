package models

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/desertthunder/vinyl/internal/shared"
)

// Album is one owned physical release.
type Album struct {
	ID         int64   `json:"id"`
	ExternalID int64   `json:"external_id"`
	Artist     string  `json:"artist"`
	Title      string  `json:"title"`
	Year       *int    `json:"year,omitempty"`
	CoverImage *string `json:"cover_image,omitempty"`
	SourceURL  string  `json:"discogs_url"`
}

// YearString renders the release year, or "?" when unknown.
func (a Album) YearString() string {
	if a.Year == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *a.Year)
}

// Matches reports whether query appears in the artist or title, ignoring case.
func (a Album) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Artist), q) || strings.Contains(strings.ToLower(a.Title), q)
}

// SortField names a sortable catalog attribute.
type SortField string

const (
	SortByArtist SortField = "artist"
	SortByTitle  SortField = "title"
	SortByYear   SortField = "year"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortField maps user input to a [SortField]. Empty input selects [SortByArtist].
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "artist":
		return SortByArtist, nil
	case "title":
		return SortByTitle, nil
	case "year":
		return SortByYear, nil
	default:
		return "", fmt.Errorf("%w: unknown sort field %q", shared.ErrInvalidSort, s)
	}
}

// ParseSortDirection maps user input to a [SortDirection]. Empty input selects [Ascending].
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: unknown sort direction %q", shared.ErrInvalidSort, s)
	}
}

var albumComparators = map[SortField]func(a, b Album) int{
	SortByArtist: func(a, b Album) int {
		return cmp.Or(compareFold(a.Artist, b.Artist), compareFold(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	},
	SortByTitle: func(a, b Album) int {
		return cmp.Or(compareFold(a.Title, b.Title), compareFold(a.Artist, b.Artist), cmp.Compare(a.ID, b.ID))
	},
	SortByYear: func(a, b Album) int {
		return cmp.Or(compareYear(a.Year, b.Year), compareFold(a.Artist, b.Artist), cmp.Compare(a.ID, b.ID))
	},
}

// Comparator returns the ordering function for field and direction.
func Comparator(field SortField, dir SortDirection) (func(a, b Album) int, error) {
	fn, ok := albumComparators[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort field %q", shared.ErrInvalidSort, field)
	}

	switch dir {
	case Ascending:
		return fn, nil
	case Descending:
		return func(a, b Album) int { return fn(b, a) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown sort direction %q", shared.ErrInvalidSort, dir)
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareYear orders unknown years before known ones.
func compareYear(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}
