package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/secondary"
)

// SchedulerStore implements secondary.SchedulerStore with SQLite. Claim and
// complete each run select-then-mutate inside one transaction so concurrent
// workers never walk away with the same ticket.
type SchedulerStore struct {
	db *sql.DB
}

// NewSchedulerStore creates a new SQLite scheduler store.
func NewSchedulerStore(db *sql.DB) *SchedulerStore {
	return &SchedulerStore{db: db}
}

// priorityRankSQL orders tickets critical, high, normal, low, with anything
// unrecognized sorting last. Ties break on sort_order.
const priorityRankSQL = `CASE priority
	WHEN 'critical' THEN 0
	WHEN 'high' THEN 1
	WHEN 'normal' THEN 2
	WHEN 'low' THEN 3
	ELSE 4
END`

// blockedSubquery matches tickets that depend on a ticket which is not yet
// resolved. Edges whose target is missing or not ticket-typed never match,
// so orphaned edges do not block.
const blockedSubquery = `SELECT d.source_id
	FROM pm_dependencies d
	JOIN pm_tickets t ON d.target_type = 'ticket' AND d.target_id = t.id
	WHERE t.status NOT IN ('done', 'archived')`

// ClaimNext atomically picks the highest-priority open ticket, marks it
// in_progress, and writes the ledger entry. Returns (nil, nil) when no
// ticket qualifies.
func (s *SchedulerStore) ClaimNext(ctx context.Context, unblockedOnly bool) (*secondary.TicketRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "SELECT id FROM pm_tickets WHERE status = ? AND needs_human_supervision = 0"
	if unblockedOnly {
		query += " AND id NOT IN (" + blockedSubquery + ")"
	}
	query += " ORDER BY " + priorityRankSQL + ", sort_order ASC LIMIT 1"

	var id string
	err = tx.QueryRowContext(ctx, query, models.StatusOpen).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select next ticket: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE pm_tickets SET status = ?, status_updated_at = datetime('now'), updated_at = datetime('now') WHERE id = ?",
		models.StatusInProgress, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim ticket: %w", err)
	}

	if err := insertHistory(ctx, tx, id, models.StatusOpen, models.StatusInProgress); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, "SELECT "+ticketSelectCols+" FROM pm_tickets WHERE id = ?", id)
	record, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get claimed ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	return record, nil
}

// Complete marks a ticket done from whatever status it held and writes the
// ledger entry. A non-empty summary is appended to the description.
func (s *SchedulerStore) Complete(ctx context.Context, id string, summary string) (*secondary.TicketRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var priorStatus, description string
	err = tx.QueryRowContext(ctx, "SELECT status, description FROM pm_tickets WHERE id = ?", id).Scan(&priorStatus, &description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if summary != "" {
		description += models.CompletionSummarySeparator + summary
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE pm_tickets SET status = ?, description = ?, status_updated_at = datetime('now'), updated_at = datetime('now') WHERE id = ?",
		models.StatusDone, description, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete ticket: %w", err)
	}

	if err := insertHistory(ctx, tx, id, priorStatus, models.StatusDone); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, "SELECT "+ticketSelectCols+" FROM pm_tickets WHERE id = ?", id)
	record, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	return record, nil
}

// Ensure SchedulerStore implements the interface
var _ secondary.SchedulerStore = (*SchedulerStore)(nil)
