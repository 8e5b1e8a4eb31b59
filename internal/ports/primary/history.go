package primary

import "context"

// HistoryService defines the primary port for reading the status ledger.
type HistoryService interface {
	// ListStatusHistory returns ledger entries in chronological order,
	// for one ticket when ticketID is non-empty or for all tickets.
	ListStatusHistory(ctx context.Context, ticketID string) ([]*StatusHistoryEntry, error)
}

// StatusHistoryEntry is one immutable ledger row. FromStatus is empty for
// the initial entry written at ticket creation.
type StatusHistoryEntry struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
	ChangedAt  string `json:"changed_at"`
	Source     string `json:"source"`
}
