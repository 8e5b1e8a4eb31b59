// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/ports/secondary"
)

// EpicRepository implements secondary.EpicRepository with SQLite.
type EpicRepository struct {
	db *sql.DB
}

// NewEpicRepository creates a new SQLite epic repository.
func NewEpicRepository(db *sql.DB) *EpicRepository {
	return &EpicRepository{db: db}
}

const epicSelectCols = "id, name, description, sort_order, created_at, updated_at"

// scanEpic scans an epic row into an EpicRecord.
func scanEpic(scanner interface {
	Scan(dest ...any) error
}) (*secondary.EpicRecord, error) {
	record := &secondary.EpicRecord{}
	err := scanner.Scan(
		&record.ID, &record.Name, &record.Description, &record.SortOrder,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Create persists a new epic at the end of the sort order.
func (r *EpicRepository) Create(ctx context.Context, epic *secondary.EpicRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(sort_order) FROM pm_epics").Scan(&maxOrder); err != nil {
		return fmt.Errorf("failed to get epic sort order: %w", err)
	}

	sortOrder := 0
	if maxOrder.Valid {
		sortOrder = int(maxOrder.Int64) + 1
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pm_epics (id, name, description, sort_order) VALUES (?, ?, ?, ?)",
		epic.ID, epic.Name, epic.Description, sortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create epic: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit epic create: %w", err)
	}

	created, err := r.GetByID(ctx, epic.ID)
	if err != nil {
		return err
	}
	*epic = *created

	return nil
}

// GetByID retrieves an epic by its ID.
func (r *EpicRepository) GetByID(ctx context.Context, id string) (*secondary.EpicRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+epicSelectCols+" FROM pm_epics WHERE id = ?",
		id,
	)

	record, err := scanEpic(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("epic %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get epic: %w", err)
	}

	return record, nil
}

// List retrieves all epics with their ticket counts, ordered by sort order.
func (r *EpicRepository) List(ctx context.Context) ([]*secondary.EpicRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.description, e.sort_order, e.created_at, e.updated_at,
		       COUNT(t.id) AS ticket_count
		FROM pm_epics e
		LEFT JOIN pm_tickets t ON t.epic_id = e.id
		GROUP BY e.id
		ORDER BY e.sort_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list epics: %w", err)
	}
	defer rows.Close()

	var epics []*secondary.EpicRecord
	for rows.Next() {
		record := &secondary.EpicRecord{}
		err := rows.Scan(
			&record.ID, &record.Name, &record.Description, &record.SortOrder,
			&record.CreatedAt, &record.UpdatedAt, &record.TicketCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan epic: %w", err)
		}
		epics = append(epics, record)
	}

	return epics, rows.Err()
}

// Update applies the supplied fields to an existing epic.
func (r *EpicRepository) Update(ctx context.Context, id string, update secondary.EpicUpdate) (*secondary.EpicRecord, error) {
	query := "UPDATE pm_epics SET updated_at = datetime('now')"
	args := []any{}

	if update.Name != nil {
		query += ", name = ?"
		args = append(args, *update.Name)
	}

	if update.Description != nil {
		query += ", description = ?"
		args = append(args, *update.Description)
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update epic: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, fmt.Errorf("epic %s: %w", id, secondary.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

// Delete removes an epic. Its tickets cascade away with it.
func (r *EpicRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pm_epics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete epic: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("epic %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Ensure EpicRepository implements the interface
var _ secondary.EpicRepository = (*EpicRepository)(nil)
