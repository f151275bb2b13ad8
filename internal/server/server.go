// package server contains middleware & handlers for the vinyl JSON API
package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request ids, panic recovery, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route binds one method and path pattern to a handler.
//
// Path may contain [http.ServeMux] wildcards such as "/albums/{id}".
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Handler defines the interface for groups of HTTP endpoints.
// Implementations return every route they serve so they can be registered in one call.
type Handler interface {
	Routes() []Route
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers every route of a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}
