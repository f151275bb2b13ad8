// Package services defines the [CollectionSource] interface for external record inventories and implements it for Discogs.
//
// # Discogs Implementation
//
// [DiscogsService] reads the user's "All" collection folder one page at a time.
//
// The personal access token is sent as "Authorization: Discogs token=..." by an [oauth2.Transport]
// wrapping a static token source, so the token never appears in request URLs or logs.
// Requests share a [rate.Limiter] sized from discogs.requests_per_minute.
//
// # Error Handling
//
// Every failure of a fetch is a [shared.ExternalFetchError]:
//   - [shared.ErrTimeout] : the per-request deadline expired
//   - [shared.ErrServiceUnavailable] : 5xx from Discogs
//   - [shared.ErrMalformedResponse] : body could not be decoded
//
// Missing user id or token returns [shared.ErrMissingCredentials] before any request is made.
//
// # API Mappings
//
// basic_information is mapped to [Release]:
//   - year 0 becomes nil
//   - artist names are joined with ", " after trimming disambiguation suffixes such as " (2)"
//   - cover_image falls back to thumb
package services
