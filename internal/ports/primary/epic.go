// Package primary defines the service ports: the operations exposed to the
// MCP tool surface and the CLI, and the JSON-serializable shapes they
// exchange.
package primary

import "context"

// EpicService defines the primary port for epic operations.
type EpicService interface {
	// ListEpics returns all epics ordered by sort order, each annotated
	// with its live ticket count.
	ListEpics(ctx context.Context) ([]*Epic, error)

	// CreateEpic creates a new epic at the end of the sort order.
	CreateEpic(ctx context.Context, req CreateEpicRequest) (*Epic, error)

	// GetEpicWithTickets returns one epic and its tickets ordered by sort
	// order, or a not-found error.
	GetEpicWithTickets(ctx context.Context, epicID string) (*EpicWithTickets, error)

	// ListEpicsWithTickets returns every epic with its nested tickets,
	// used for bulk export.
	ListEpicsWithTickets(ctx context.Context) ([]*EpicWithTickets, error)

	// UpdateEpic applies the supplied fields to an epic.
	UpdateEpic(ctx context.Context, req UpdateEpicRequest) (*Epic, error)

	// DeleteEpic removes an epic and cascades to its tickets.
	DeleteEpic(ctx context.Context, epicID string) error
}

// CreateEpicRequest contains parameters for creating an epic.
type CreateEpicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateEpicRequest contains the sparse fields of an epic update.
type UpdateEpicRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Epic represents an epic at the port boundary. TicketCount is computed,
// not stored, and is only meaningful on list responses.
type Epic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	TicketCount int    `json:"ticketCount,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// EpicWithTickets is an epic with its tickets nested, ordered by sort order.
type EpicWithTickets struct {
	Epic
	Tickets []*Ticket `json:"tickets"`
}
