// Package repositories implements SQLite persistence for the catalog and its history.
//
// Key Implementations:
//   - [AlbumRepository] : the catalog store; owns album identity and the unique index over source URLs
//   - [HistoryRepository] : append-only listenings and notes keyed by album id
//
// Albums are deduplicated by source URL. Incremental imports use [AlbumRepository.CreateIfAbsent],
// which never updates an existing row; overwrite imports use [AlbumRepository.ReplaceAll].
//
// History rows reference albums by id without a foreign key constraint. Appends verify the album exists
// in the same statement that inserts the row, and clearing the catalog leaves history in place.
//
// The repositories assume a single writer; nothing guards concurrent imports against the same database.
package repositories
