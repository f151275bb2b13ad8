package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase (0 when unknown)
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase is a state of the collection sync state machine.
//
//	Idle -> SchemaReady -> (Cleared | Unchanged) -> Fetching -> Merging -> Done
//
// Failed is reachable from Cleared, Fetching and Merging.
type Phase int

const (
	Idle Phase = iota
	SchemaReady
	Cleared
	Unchanged
	Fetching
	Merging
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case SchemaReady:
		return "schema_ready"
	case Cleared:
		return "cleared"
	case Unchanged:
		return "unchanged"
	case Fetching:
		return "fetching"
	case Merging:
		return "merging"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Terminal reports whether no further phase follows p.
func (p Phase) Terminal() bool {
	return p == Done || p == Failed
}

func startUpdate(accountID string, overwrite bool) ProgressUpdate {
	mode := "incremental"
	if overwrite {
		mode = "overwrite"
	}
	return ProgressUpdate{
		Phase:   Idle,
		Message: fmt.Sprintf("Starting %s import for %s...", mode, accountID),
	}
}

func schemaReadyUpdate(err error) ProgressUpdate {
	msg := "Schema ready"
	if err != nil {
		msg = "Schema ready with errors (see log)"
	}
	return ProgressUpdate{Phase: SchemaReady, Message: msg, Data: err}
}

func clearedUpdate(removed int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Cleared,
		Message: fmt.Sprintf("Cleared %d album(s) from the catalog", removed),
		Data:    removed,
	}
}

func unchangedUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: Unchanged, Message: "Keeping existing catalog"}
}

func fetchingUpdate(page, pages int) ProgressUpdate {
	msg := fmt.Sprintf("Fetching page %d...", page)
	if pages > 0 {
		msg = fmt.Sprintf("Fetching page %d of %d...", page, pages)
	}
	return ProgressUpdate{Phase: Fetching, Step: page, Total: pages, Message: msg}
}

func mergingUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Merging,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Merging %s", title),
	}
}

func replacingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Merging,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Replacing catalog with %d album(s)...", total),
	}
}

func doneUpdate(result *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Message: fmt.Sprintf("%d new album(s) imported", result.NewCount),
		Data:    result,
	}
}

func failedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{Phase: Failed, Message: err.Error(), Data: err}
}
