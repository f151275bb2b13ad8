// Package tasks runs the collection import and records listening history.
//
// # Collection Sync
//
// [CollectionSync.Import] moves through the phases of [Phase]:
//
//  1. Idle -> SchemaReady : the schema is ensured on every run; errors are logged, not returned
//  2. -> Cleared (overwrite) or -> Unchanged (incremental, or buffered overwrite)
//  3. -> Fetching : pages are requested one at a time until the source reports the last page
//  4. -> Merging : incremental runs insert unseen albums one by one; overwrite runs replace the catalog in one transaction
//  5. -> Done with an [ImportResult], or -> Failed with the error and no result
//
// Clearing precedes fetching, so a failed unbuffered overwrite leaves the catalog empty.
// Set sync.buffer_overwrite to fetch first and keep the old catalog on failure.
//
// Albums are deduplicated by [SourceURL], derived from the release id and a slug of its title.
//
// # Progress Reporting
//
// Import sends [ProgressUpdate] values on an optional channel. Sends never block; a full channel drops the update.
//
// # Journal
//
// [Journal] stamps listenings with the current UTC time and returns history snapshots
// that callers page through with [shared.Pager].
package tasks
