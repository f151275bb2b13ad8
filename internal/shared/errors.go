package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// External source errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timed out")

	// Storage errors
	ErrAlbumNotFound = errors.New("album not found")
	ErrSchema        = errors.New("schema error")
	ErrPersistence   = errors.New("persistence error")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidSort     = errors.New("invalid sort option")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// SchemaError reports a failure to create or alter a storage object.
type SchemaError struct {
	Object string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s: %v", e.Object, e.Err)
}

func (e *SchemaError) Unwrap() []error { return []error{ErrSchema, e.Err} }

// ExternalFetchError reports a network failure, non-success status, or undecodable body from the collection source.
//
// StatusCode is zero when no response was received.
type ExternalFetchError struct {
	Page       int
	StatusCode int
	Err        error
}

func (e *ExternalFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch page %d: status %d: %v", e.Page, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *ExternalFetchError) Unwrap() []error { return []error{ErrAPIRequest, e.Err} }

// PersistenceError reports an insert or query failure against local storage.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
