// Package models defines the catalog and history entities for the vinyl journal.
//
// The package contains three entity types:
//   - [Album] : a catalog item imported from the collection source, keyed for deduplication by its source URL
//   - [Listening] : an append-only record that an album was played
//   - [Note] : an append-only free-text annotation on an album
//
// Listenings and notes hold the album's local id as a plain value; they never own or embed the album.
//
// Catalog ordering is chosen from the closed [SortField] and [SortDirection] sets.
// Each (field, direction) pair maps to a comparator, so user input never reaches a query string.
package models
