// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing a record collection:
//  1. [AlbumListView] : Browse the catalog, cycle sort field (s) and direction (o), pick a random album (r)
//  2. [DetailView] : Album details with listening history revealed five at a time (m)
//  3. [CommentView] : Record a listening with an optional comment (l)
//  4. [ConfirmImportView] : Confirm a Discogs import, toggling overwrite mode
//  5. [ImportView] : Monitor real-time sync progress
//  6. [ResultView] : Display import counts
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the collection sync, providing non-blocking status reporting during imports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
