package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/ports/secondary"
)

// DependencyRepository implements secondary.DependencyRepository with SQLite.
type DependencyRepository struct {
	db *sql.DB
}

// NewDependencyRepository creates a new SQLite dependency repository.
func NewDependencyRepository(db *sql.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

// CreateIfAbsent inserts the edge unless the (source, target) pair already
// exists, then returns the stored row. Repeated calls with the same pair
// return the same id.
func (r *DependencyRepository) CreateIfAbsent(ctx context.Context, dep *secondary.DependencyRecord) (*secondary.DependencyRecord, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO pm_dependencies (id, source_type, source_id, target_type, target_id) VALUES (?, ?, ?, ?, ?)",
		dep.ID, dep.SourceType, dep.SourceID, dep.TargetType, dep.TargetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dependency: %w", err)
	}

	stored := &secondary.DependencyRecord{}
	err = r.db.QueryRowContext(ctx,
		"SELECT id, source_type, source_id, target_type, target_id FROM pm_dependencies WHERE source_id = ? AND target_id = ?",
		dep.SourceID, dep.TargetID,
	).Scan(&stored.ID, &stored.SourceType, &stored.SourceID, &stored.TargetType, &stored.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency: %w", err)
	}

	return stored, nil
}

// List returns edges enriched with resolved endpoint names and statuses.
// Endpoints that are not resolvable tickets fall back to the raw id and an
// empty status.
func (r *DependencyRepository) List(ctx context.Context, ticketID string) ([]*secondary.DependencyInfoRecord, error) {
	query := `
		SELECT d.id, d.source_type, d.source_id, d.target_type, d.target_id,
		       COALESCE(st.name, d.source_id), COALESCE(st.status, ''),
		       COALESCE(tt.name, d.target_id), COALESCE(tt.status, '')
		FROM pm_dependencies d
		LEFT JOIN pm_tickets st ON d.source_type = 'ticket' AND d.source_id = st.id
		LEFT JOIN pm_tickets tt ON d.target_type = 'ticket' AND d.target_id = tt.id
	`
	args := []any{}

	if ticketID != "" {
		query += " WHERE d.source_id = ? OR d.target_id = ?"
		args = append(args, ticketID, ticketID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	defer rows.Close()

	var deps []*secondary.DependencyInfoRecord
	for rows.Next() {
		record := &secondary.DependencyInfoRecord{}
		err := rows.Scan(
			&record.ID, &record.SourceType, &record.SourceID, &record.TargetType, &record.TargetID,
			&record.SourceName, &record.SourceStatus, &record.TargetName, &record.TargetStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps = append(deps, record)
	}

	return deps, rows.Err()
}

// Delete removes an edge by id.
func (r *DependencyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pm_dependencies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dependency: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("dependency %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// Ensure DependencyRepository implements the interface
var _ secondary.DependencyRepository = (*DependencyRepository)(nil)
