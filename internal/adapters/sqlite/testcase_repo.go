package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/ports/secondary"
)

// TestCaseRepository implements secondary.TestCaseRepository with SQLite.
type TestCaseRepository struct {
	db *sql.DB
}

// NewTestCaseRepository creates a new SQLite test case repository.
func NewTestCaseRepository(db *sql.DB) *TestCaseRepository {
	return &TestCaseRepository{db: db}
}

const testCaseSelectCols = "id, ticket_id, title, body, sort_order, created_at, updated_at"

// Create persists a new test case with a per-ticket sort order starting at 1.
func (r *TestCaseRepository) Create(ctx context.Context, tc *secondary.TestCaseRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ticketCount int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM pm_tickets WHERE id = ?", tc.TicketID).Scan(&ticketCount); err != nil {
		return fmt.Errorf("failed to check ticket existence: %w", err)
	}
	if ticketCount == 0 {
		return fmt.Errorf("ticket %s: %w", tc.TicketID, secondary.ErrForeignKey)
	}

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(sort_order) FROM pm_test_cases WHERE ticket_id = ?", tc.TicketID).Scan(&maxOrder); err != nil {
		return fmt.Errorf("failed to get test case sort order: %w", err)
	}

	sortOrder := 1
	if maxOrder.Valid {
		sortOrder = int(maxOrder.Int64) + 1
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pm_test_cases (id, ticket_id, title, body, sort_order) VALUES (?, ?, ?, ?, ?)",
		tc.ID, tc.TicketID, tc.Title, tc.Body, sortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create test case: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit test case create: %w", err)
	}

	row := r.db.QueryRowContext(ctx, "SELECT "+testCaseSelectCols+" FROM pm_test_cases WHERE id = ?", tc.ID)
	created := &secondary.TestCaseRecord{}
	err = row.Scan(&created.ID, &created.TicketID, &created.Title, &created.Body, &created.SortOrder, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to get test case: %w", err)
	}
	*tc = *created

	return nil
}

// ListByTicket retrieves a ticket's test cases ordered by sort order.
func (r *TestCaseRepository) ListByTicket(ctx context.Context, ticketID string) ([]*secondary.TestCaseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+testCaseSelectCols+" FROM pm_test_cases WHERE ticket_id = ? ORDER BY sort_order ASC",
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	defer rows.Close()

	var cases []*secondary.TestCaseRecord
	for rows.Next() {
		record := &secondary.TestCaseRecord{}
		err := rows.Scan(&record.ID, &record.TicketID, &record.Title, &record.Body, &record.SortOrder, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		cases = append(cases, record)
	}

	return cases, rows.Err()
}

// Ensure TestCaseRepository implements the interface
var _ secondary.TestCaseRepository = (*TestCaseRepository)(nil)
