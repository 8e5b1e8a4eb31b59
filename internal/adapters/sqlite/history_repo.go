package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
// It only reads; ledger rows are written inside ticket and scheduler
// transactions.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// List returns ledger entries in chronological order, for one ticket when
// ticketID is non-empty or for all tickets otherwise.
func (r *HistoryRepository) List(ctx context.Context, ticketID string) ([]*secondary.StatusHistoryRecord, error) {
	query := "SELECT id, ticket_id, from_status, to_status, changed_at, source FROM pm_status_history"
	args := []any{}

	if ticketID != "" {
		query += " WHERE ticket_id = ?"
		args = append(args, ticketID)
	}

	// rowid breaks ties between entries written within the same second.
	query += " ORDER BY changed_at ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.StatusHistoryRecord
	for rows.Next() {
		var fromStatus sql.NullString
		record := &secondary.StatusHistoryRecord{}
		err := rows.Scan(&record.ID, &record.TicketID, &fromStatus, &record.ToStatus, &record.ChangedAt, &record.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		record.FromStatus = fromStatus.String
		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// Ensure HistoryRepository implements the interface
var _ secondary.HistoryRepository = (*HistoryRepository)(nil)
