package primary

import "context"

// SchedulerService defines the primary port for task dispatch. Claiming is
// the only legitimate path for automation to move a ticket into
// in_progress; both Fetch variants atomically select and claim.
type SchedulerService interface {
	// FetchNextTask claims the open, non-supervised ticket with the
	// highest priority (ties broken by sort order). Returns nil when no
	// eligible ticket exists; absence of work is not an error.
	FetchNextTask(ctx context.Context) (*Ticket, error)

	// FetchNextUnblockedTask is FetchNextTask with dependency awareness:
	// tickets with an unresolved ticket-typed dependency target are
	// skipped. Returns nil when every open ticket is blocked.
	FetchNextUnblockedTask(ctx context.Context) (*Ticket, error)

	// CompleteTask marks a ticket done from whatever its prior status was.
	// A non-empty summary is appended to the description with a fixed
	// separator rather than replacing it.
	CompleteTask(ctx context.Context, req CompleteTaskRequest) (*Ticket, error)
}

// CompleteTaskRequest contains parameters for completing a ticket.
type CompleteTaskRequest struct {
	ID      string `json:"id"`
	Summary string `json:"summary,omitempty"`
}
