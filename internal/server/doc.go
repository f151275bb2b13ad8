// Package server provides HTTP routing, middleware, and the JSON API over the catalog, history and import.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /albums/{id}").
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface by listing their [Route]s,
// which keeps a group of endpoints and their paths together in one type.
//
// # API
//
// [API] serves:
//
//	GET  /albums?sort=&order=&q=   sorted catalog, optional search
//	GET  /albums/random            one random album, 100 requests per 15 minutes
//	GET  /albums/{id}
//	GET  /albums/{id}/history      album, listenings and notes
//	GET  /albums/{id}/listenings   newest first, ?batches=n reveals n batches of five
//	POST /albums/{id}/listenings   {"comment"}; timestamp assigned by the server
//	GET  /albums/{id}/notes
//	POST /albums/{id}/notes        {"text", "timestamp"}
//	POST /import                   {"user_id", "token", "overwrite"} as JSON or form
//
// Errors are JSON objects with an "error" key. A failed import responds 502 with the cause and no count.
//
// # Middleware
//
// [RequestID] assigns X-Request-ID, [Logging] writes one line per request, [Recover] turns panics into 500s,
// and [RateLimit] answers 429 once its limiter is exhausted.
package server
