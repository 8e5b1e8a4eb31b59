package primary

import "context"

// DependencyService defines the primary port for dependency edges and the
// per-ticket test cases that ride along with them in the tool surface.
type DependencyService interface {
	// CreateDependency inserts a blocks-edge. Idempotent: repeating the
	// call with the same (sourceId, targetId) pair returns the existing
	// edge with its original id.
	CreateDependency(ctx context.Context, req CreateDependencyRequest) (*Dependency, error)

	// ListDependencies returns edges enriched with endpoint names and
	// statuses, optionally filtered to edges touching one ticket.
	ListDependencies(ctx context.Context, ticketID string) ([]*DependencyInfo, error)

	// DeleteDependency removes an edge by id.
	DeleteDependency(ctx context.Context, id string) error

	// CreateTestCase attaches a test case to a ticket.
	CreateTestCase(ctx context.Context, req CreateTestCaseRequest) (*TestCase, error)

	// ListTestCases returns a ticket's test cases ordered by sort order.
	ListTestCases(ctx context.Context, ticketID string) ([]*TestCase, error)
}

// CreateDependencyRequest contains parameters for creating a dependency.
// Types default to "ticket" when empty.
type CreateDependencyRequest struct {
	SourceID   string `json:"sourceId"`
	TargetID   string `json:"targetId"`
	SourceType string `json:"sourceType,omitempty"`
	TargetType string `json:"targetType,omitempty"`
}

// Dependency represents an edge at the port boundary.
type Dependency struct {
	ID         string `json:"id"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

// DependencyInfo is an edge enriched with resolved endpoint names and
// statuses. Unresolvable endpoints fall back to the raw id and an empty
// status.
type DependencyInfo struct {
	Dependency
	SourceName   string `json:"source_name"`
	SourceStatus string `json:"source_status"`
	TargetName   string `json:"target_name"`
	TargetStatus string `json:"target_status"`
}

// CreateTestCaseRequest contains parameters for creating a test case.
type CreateTestCaseRequest struct {
	TicketID string `json:"ticketId"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
}

// TestCase represents a test case at the port boundary.
type TestCase struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
