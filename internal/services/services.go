// package services defines interface CollectionSource for reading a user's record collection over HTTP
//
// Discogs
package services

import (
	"context"
)

// CollectionSource reads one page of a user's collection from an external inventory service.
type CollectionSource interface {
	// FetchCollectionPage returns page (1-based) of userID's collection, perPage releases at a time.
	//
	// Failures are reported as [shared.ExternalFetchError].
	FetchCollectionPage(ctx context.Context, userID, token string, page, perPage int) (*CollectionPage, error)

	// Name returns the name of the service (e.g., "Discogs")
	Name() string
}

// Release is one item descriptor from a collection page.
type Release struct {
	ID         int64
	Title      string
	Artists    string
	Year       *int // nil when the source does not know the year
	CoverImage string
}

// Pagination describes where a page sits in the whole collection.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// CollectionPage is one decoded page of a collection.
type CollectionPage struct {
	Pagination Pagination
	Releases   []Release
}

// Last reports whether no page follows the requested one.
//
// The requested page number is used rather than pagination.page, which some responses leave unset.
func (p *CollectionPage) Last(requested int) bool {
	return len(p.Releases) == 0 || requested >= p.Pagination.Pages
}
