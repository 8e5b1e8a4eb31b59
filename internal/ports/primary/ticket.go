package primary

import (
	"context"

	"github.com/example/dispatch/internal/models"
)

// TicketService defines the primary port for ticket operations.
type TicketService interface {
	// ListTickets lists tickets with optional status and epic filters,
	// ordered by sort order.
	ListTickets(ctx context.Context, filters TicketFilters) ([]*Ticket, error)

	// CreateTicket creates an open ticket at the end of its epic's sort
	// order and writes the initial history entry.
	CreateTicket(ctx context.Context, req CreateTicketRequest) (*Ticket, error)

	// UpdateTicket applies only the supplied fields. A status change
	// refreshes statusUpdatedAt and appends one history entry.
	UpdateTicket(ctx context.Context, req UpdateTicketRequest) (*Ticket, error)

	// DeleteTicket removes a ticket; history and test cases cascade.
	DeleteTicket(ctx context.Context, ticketID string) error

	// GetTicketContext returns the context items attached to a ticket.
	GetTicketContext(ctx context.Context, ticketID string) ([]models.ContextItem, error)

	// AddContextItem appends a snippet or file reference to a ticket's
	// context and returns the full updated list.
	AddContextItem(ctx context.Context, ticketID, itemType, value string) ([]models.ContextItem, error)

	// RemoveContextItem removes one item by id. Unknown item ids are a
	// no-op. Returns the full updated list.
	RemoveContextItem(ctx context.Context, ticketID, itemID string) ([]models.ContextItem, error)

	// ClearTicketContext removes all context items from a ticket.
	ClearTicketContext(ctx context.Context, ticketID string) error
}

// TicketFilters contains filter options for listing tickets. Both filters
// are ANDed when present.
type TicketFilters struct {
	Status string `json:"status,omitempty"`
	EpicID string `json:"epicId,omitempty"`
}

// CreateTicketRequest contains parameters for creating a ticket.
type CreateTicketRequest struct {
	EpicID      string `json:"epicId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"` // default: normal
}

// UpdateTicketRequest contains the sparse fields of a ticket update. Nil
// fields are left untouched.
type UpdateTicketRequest struct {
	ID                    string  `json:"id"`
	Status                *string `json:"status,omitempty"`
	Name                  *string `json:"name,omitempty"`
	Description           *string `json:"description,omitempty"`
	Priority              *string `json:"priority,omitempty"`
	WorkingDirectory      *string `json:"workingDirectory,omitempty"`
	ModelPower            *string `json:"modelPower,omitempty"`
	NeedsHumanSupervision *bool   `json:"needsHumanSupervision,omitempty"`
}

// Ticket represents a ticket at the port boundary.
type Ticket struct {
	ID                    string               `json:"id"`
	EpicID                string               `json:"epic_id"`
	Name                  string               `json:"name"`
	Description           string               `json:"description"`
	Status                string               `json:"status"`
	SortOrder             int                  `json:"sort_order"`
	Context               []models.ContextItem `json:"context"`
	StatusUpdatedAt       string               `json:"status_updated_at"`
	WorkingDirectory      string               `json:"working_directory,omitempty"`
	Priority              string               `json:"priority"`
	ModelPower            string               `json:"model_power,omitempty"`
	NeedsHumanSupervision bool                 `json:"needs_human_supervision"`
	CreatedAt             string               `json:"created_at"`
	UpdatedAt             string               `json:"updated_at"`
}
