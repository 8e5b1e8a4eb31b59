// Package secondary defines the persistence ports: repository interfaces
// and the record types they exchange. Implementations live in
// internal/adapters/sqlite.
package secondary

import "context"

// ---------------------------------------------------------------------------
// Epics
// ---------------------------------------------------------------------------

// EpicRepository persists epic containers. The repository owns sort-order
// assignment: Create computes max(sort_order)+1 (0 when the table is empty)
// inside the insert transaction.
type EpicRepository interface {
	// Create persists a new epic and fills in SortOrder and timestamps.
	Create(ctx context.Context, epic *EpicRecord) error

	// GetByID retrieves an epic by its ID.
	GetByID(ctx context.Context, id string) (*EpicRecord, error)

	// List retrieves all epics ordered by sort_order ascending, each
	// annotated with its live ticket count.
	List(ctx context.Context) ([]*EpicRecord, error)

	// Update applies the supplied fields to an existing epic.
	Update(ctx context.Context, id string, update EpicUpdate) (*EpicRecord, error)

	// Delete removes an epic. Tickets under it cascade.
	Delete(ctx context.Context, id string) error
}

// EpicRecord represents an epic as stored in persistence.
type EpicRecord struct {
	ID          string
	Name        string
	Description string
	SortOrder   int
	TicketCount int // populated by List only (computed, never stored)
	CreatedAt   string
	UpdatedAt   string
}

// EpicUpdate contains the sparse fields of an epic update. Nil fields are
// left untouched.
type EpicUpdate struct {
	Name        *string
	Description *string
}

// ---------------------------------------------------------------------------
// Tickets
// ---------------------------------------------------------------------------

// TicketRepository persists tickets. Create and Update are transactional
// with the status history ledger: the null -> open entry on create, and the
// old -> new entry on an actual status change, are written in the same
// transaction as the ticket row. The mutation source for ledger rows is
// taken from the context (ctxutil.SourceFromContext).
type TicketRepository interface {
	// Create persists a new ticket with status open, a per-epic sort order
	// of max+1, and the initial history entry.
	Create(ctx context.Context, ticket *TicketRecord) error

	// GetByID retrieves a ticket by its ID.
	GetByID(ctx context.Context, id string) (*TicketRecord, error)

	// List retrieves tickets matching the filters, ordered by sort_order.
	List(ctx context.Context, filters TicketFilters) ([]*TicketRecord, error)

	// ListByEpic retrieves an epic's tickets ordered by sort_order.
	ListByEpic(ctx context.Context, epicID string) ([]*TicketRecord, error)

	// Update applies the supplied fields. A supplied status that differs
	// from the current value refreshes status_updated_at and appends one
	// history entry; a supplied-but-equal status does neither.
	Update(ctx context.Context, id string, update TicketUpdate) (*TicketRecord, error)

	// GetContext returns the raw context JSON for a ticket.
	GetContext(ctx context.Context, id string) (string, error)

	// UpdateContext replaces the raw context JSON for a ticket.
	UpdateContext(ctx context.Context, id string, contextJSON string) error

	// Delete removes a ticket. History and test cases cascade; dependency
	// edges are left in place (orphan edges never block).
	Delete(ctx context.Context, id string) error
}

// TicketRecord represents a ticket as stored in persistence. Context holds
// the raw JSON array; decoding into typed items happens in the service layer.
type TicketRecord struct {
	ID                    string
	EpicID                string
	Name                  string
	Description           string
	Status                string
	SortOrder             int
	Context               string
	StatusUpdatedAt       string
	WorkingDirectory      string
	Priority              string
	ModelPower            string
	NeedsHumanSupervision bool
	CreatedAt             string
	UpdatedAt             string
}

// TicketFilters contains filter options for querying tickets. Both filters
// are ANDed when present.
type TicketFilters struct {
	Status string
	EpicID string
}

// TicketUpdate contains the sparse fields of a ticket update. Nil fields
// are left untouched.
type TicketUpdate struct {
	Name                  *string
	Description           *string
	Status                *string
	Priority              *string
	WorkingDirectory      *string
	ModelPower            *string
	NeedsHumanSupervision *bool
}

// ---------------------------------------------------------------------------
// Scheduler
// ---------------------------------------------------------------------------

// SchedulerStore is the transactional dispatch path over tickets and the
// history ledger. Both operations execute select-then-mutate inside a
// single transaction so that two concurrent callers can never claim the
// same ticket.
type SchedulerStore interface {
	// ClaimNext selects the open, non-supervised ticket with the smallest
	// (priority rank, sort_order) key, marks it in_progress, appends a
	// history entry, and returns the updated row. When unblockedOnly is
	// set, tickets with an unresolved ticket-typed dependency target are
	// excluded. Returns (nil, nil) when no candidate exists.
	ClaimNext(ctx context.Context, unblockedOnly bool) (*TicketRecord, error)

	// Complete marks a ticket done from whatever its prior status was and
	// appends a history entry. A non-empty summary is appended to the
	// description with the fixed separator.
	Complete(ctx context.Context, id string, summary string) (*TicketRecord, error)
}

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

// DependencyRepository persists directed blocks-edges between work items.
type DependencyRepository interface {
	// CreateIfAbsent inserts the edge unless the (sourceID, targetID) pair
	// already exists, and returns the stored row either way. The returned
	// id is stable across repeated calls with the same pair.
	CreateIfAbsent(ctx context.Context, dep *DependencyRecord) (*DependencyRecord, error)

	// List returns edges enriched with resolved endpoint names and
	// statuses. When ticketID is non-empty only edges touching it (as
	// source or target) are returned.
	List(ctx context.Context, ticketID string) ([]*DependencyInfoRecord, error)

	// Delete removes an edge by id.
	Delete(ctx context.Context, id string) error
}

// DependencyRecord represents a dependency edge as stored in persistence.
type DependencyRecord struct {
	ID         string
	SourceType string
	SourceID   string
	TargetType string
	TargetID   string
}

// DependencyInfoRecord is an edge enriched with resolved endpoint data.
// Name falls back to the raw id and Status to the empty string when the
// endpoint is not a resolvable ticket.
type DependencyInfoRecord struct {
	DependencyRecord
	SourceName   string
	SourceStatus string
	TargetName   string
	TargetStatus string
}

// ---------------------------------------------------------------------------
// Status history
// ---------------------------------------------------------------------------

// HistoryRepository reads the append-only status ledger. Writes happen only
// inside ticket and scheduler transactions; nothing updates or deletes
// ledger rows.
type HistoryRepository interface {
	// List returns ledger entries ordered by changed_at ascending, for one
	// ticket when ticketID is non-empty or for all tickets otherwise.
	List(ctx context.Context, ticketID string) ([]*StatusHistoryRecord, error)
}

// StatusHistoryRecord represents one ledger row. FromStatus is empty for
// the initial entry written at ticket creation.
type StatusHistoryRecord struct {
	ID         string
	TicketID   string
	FromStatus string
	ToStatus   string
	ChangedAt  string
	Source     string
}

// ---------------------------------------------------------------------------
// Test cases
// ---------------------------------------------------------------------------

// TestCaseRepository persists per-ticket test cases.
type TestCaseRepository interface {
	// Create persists a new test case with a per-ticket sort order
	// starting at 1. Returns ErrForeignKey when the ticket does not exist.
	Create(ctx context.Context, tc *TestCaseRecord) error

	// ListByTicket retrieves a ticket's test cases ordered by sort_order.
	ListByTicket(ctx context.Context, ticketID string) ([]*TestCaseRecord, error)
}

// TestCaseRecord represents a test case as stored in persistence.
type TestCaseRecord struct {
	ID        string
	TicketID  string
	Title     string
	Body      string
	SortOrder int
	CreatedAt string
	UpdatedAt string
}
