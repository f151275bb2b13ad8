package server

import (
	"net/http"
	"strings"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] method patterns internally, so unmatched methods get 405 and
// handlers can read wildcards with [http.Request.PathValue].
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// Only routes registered after the call are wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	pattern := path
	if method != "" {
		pattern = strings.ToUpper(method) + " " + path
	}
	r.mux.Handle(pattern, r.Apply(handler))
}

// Handler registers every [Route] returned by handler.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.Handle(route.Method, route.Path, route.Handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
