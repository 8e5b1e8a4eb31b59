package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/secondary"
)

// TicketRepository implements secondary.TicketRepository with SQLite.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new SQLite ticket repository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketSelectCols = "id, epic_id, name, description, status, sort_order, context, status_updated_at, working_directory, priority, model_power, needs_human_supervision, created_at, updated_at"

// scanTicket scans a ticket row into a TicketRecord.
func scanTicket(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TicketRecord, error) {
	var (
		workingDirectory sql.NullString
		modelPower       sql.NullString
		supervision      int
	)

	record := &secondary.TicketRecord{}
	err := scanner.Scan(
		&record.ID, &record.EpicID, &record.Name, &record.Description,
		&record.Status, &record.SortOrder, &record.Context, &record.StatusUpdatedAt,
		&workingDirectory, &record.Priority, &modelPower, &supervision,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.WorkingDirectory = workingDirectory.String
	record.ModelPower = modelPower.String
	record.NeedsHumanSupervision = supervision != 0

	return record, nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertHistory appends one row to the status ledger. An empty fromStatus
// records as NULL, marking the ticket's initial entry.
func insertHistory(ctx context.Context, ex execer, ticketID, fromStatus, toStatus string) error {
	var from sql.NullString
	if fromStatus != "" {
		from = sql.NullString{String: fromStatus, Valid: true}
	}

	_, err := ex.ExecContext(ctx,
		"INSERT INTO pm_status_history (id, ticket_id, from_status, to_status, changed_at, source) VALUES (?, ?, ?, ?, datetime('now'), ?)",
		uuid.New().String(), ticketID, from, toStatus, ctxutil.SourceFromContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	return nil
}

// Create persists a new ticket with status open and writes the initial
// ledger entry in the same transaction.
func (r *TicketRepository) Create(ctx context.Context, ticket *secondary.TicketRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var epicCount int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM pm_epics WHERE id = ?", ticket.EpicID).Scan(&epicCount); err != nil {
		return fmt.Errorf("failed to check epic existence: %w", err)
	}
	if epicCount == 0 {
		return fmt.Errorf("epic %s: %w", ticket.EpicID, secondary.ErrForeignKey)
	}

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(sort_order) FROM pm_tickets WHERE epic_id = ?", ticket.EpicID).Scan(&maxOrder); err != nil {
		return fmt.Errorf("failed to get ticket sort order: %w", err)
	}

	// Per-epic ordering starts at 1.
	sortOrder := 1
	if maxOrder.Valid {
		sortOrder = int(maxOrder.Int64) + 1
	}

	priority := ticket.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pm_tickets (id, epic_id, name, description, status, sort_order, priority) VALUES (?, ?, ?, ?, ?, ?, ?)",
		ticket.ID, ticket.EpicID, ticket.Name, ticket.Description, models.StatusOpen, sortOrder, priority,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := insertHistory(ctx, tx, ticket.ID, "", models.StatusOpen); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket create: %w", err)
	}

	created, err := r.GetByID(ctx, ticket.ID)
	if err != nil {
		return err
	}
	*ticket = *created

	return nil
}

// GetByID retrieves a ticket by its ID.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*secondary.TicketRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+ticketSelectCols+" FROM pm_tickets WHERE id = ?",
		id,
	)

	record, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return record, nil
}

// List retrieves tickets matching the given filters.
func (r *TicketRepository) List(ctx context.Context, filters secondary.TicketFilters) ([]*secondary.TicketRecord, error) {
	query := "SELECT " + ticketSelectCols + " FROM pm_tickets WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.EpicID != "" {
		query += " AND epic_id = ?"
		args = append(args, filters.EpicID)
	}

	query += " ORDER BY sort_order ASC"

	return r.queryTickets(ctx, query, args...)
}

// ListByEpic retrieves an epic's tickets ordered by sort order.
func (r *TicketRepository) ListByEpic(ctx context.Context, epicID string) ([]*secondary.TicketRecord, error) {
	return r.queryTickets(ctx,
		"SELECT "+ticketSelectCols+" FROM pm_tickets WHERE epic_id = ? ORDER BY sort_order ASC",
		epicID,
	)
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*secondary.TicketRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*secondary.TicketRecord
	for rows.Next() {
		record, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, record)
	}

	return tickets, rows.Err()
}

// Update applies the supplied fields to an existing ticket. A status change
// refreshes status_updated_at and appends a ledger entry in the same
// transaction; a status equal to the current one does neither.
func (r *TicketRepository) Update(ctx context.Context, id string, update secondary.TicketUpdate) (*secondary.TicketRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentStatus string
	err = tx.QueryRowContext(ctx, "SELECT status FROM pm_tickets WHERE id = ?", id).Scan(&currentStatus)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket status: %w", err)
	}

	query := "UPDATE pm_tickets SET updated_at = datetime('now')"
	args := []any{}

	if update.Name != nil {
		query += ", name = ?"
		args = append(args, *update.Name)
	}

	if update.Description != nil {
		query += ", description = ?"
		args = append(args, *update.Description)
	}

	statusChanged := update.Status != nil && *update.Status != currentStatus
	if statusChanged {
		query += ", status = ?, status_updated_at = datetime('now')"
		args = append(args, *update.Status)
	}

	if update.Priority != nil {
		query += ", priority = ?"
		args = append(args, *update.Priority)
	}

	if update.WorkingDirectory != nil {
		query += ", working_directory = ?"
		args = append(args, sql.NullString{String: *update.WorkingDirectory, Valid: *update.WorkingDirectory != ""})
	}

	if update.ModelPower != nil {
		query += ", model_power = ?"
		args = append(args, sql.NullString{String: *update.ModelPower, Valid: *update.ModelPower != ""})
	}

	if update.NeedsHumanSupervision != nil {
		query += ", needs_human_supervision = ?"
		supervision := 0
		if *update.NeedsHumanSupervision {
			supervision = 1
		}
		args = append(args, supervision)
	}

	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	if statusChanged {
		if err := insertHistory(ctx, tx, id, currentStatus, *update.Status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket update: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetContext returns the raw context JSON for a ticket.
func (r *TicketRepository) GetContext(ctx context.Context, id string) (string, error) {
	var contextJSON string
	err := r.db.QueryRowContext(ctx, "SELECT context FROM pm_tickets WHERE id = ?", id).Scan(&contextJSON)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get ticket context: %w", err)
	}

	return contextJSON, nil
}

// UpdateContext replaces the raw context JSON for a ticket.
func (r *TicketRepository) UpdateContext(ctx context.Context, id string, contextJSON string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE pm_tickets SET context = ?, updated_at = datetime('now') WHERE id = ?",
		contextJSON, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket context: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a ticket. History entries and test cases cascade away;
// dependency edges are left behind as harmless orphans.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pm_tickets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Ensure TicketRepository implements the interface
var _ secondary.TicketRepository = (*TicketRepository)(nil)
