// Package models contains domain constants and value types shared by the
// ports, services, and adapters. Persistence records live in
// internal/ports/secondary; API shapes live in internal/ports/primary.
package models

// Ticket status values. Status is a free string at this layer: the core
// records whatever transition a caller requests and never rejects one, but
// the scheduler only dispatches open tickets.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusArchived   = "archived"
)

// Ticket priority values. Arbitrary strings are accepted; unknown values
// rank after every built-in priority.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityNormal   = "normal"
	PriorityLow      = "low"
)

// PriorityRank maps a priority to its scheduling rank. Lower ranks are
// dispatched first.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// IsResolved reports whether a status no longer blocks dependent tickets.
func IsResolved(status string) bool {
	return status == StatusDone || status == StatusArchived
}

// CompletionSummarySeparator joins an existing description and a completion
// summary appended by complete_task.
const CompletionSummarySeparator = "\n\n---\nCompletion Summary: "
