package sqlite

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/dispatch/internal/db"
	"github.com/example/dispatch/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := conn.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return conn
}

// seedEpic inserts an epic directly.
func seedEpic(t *testing.T, conn *sql.DB, id, name string) {
	t.Helper()

	_, err := conn.Exec("INSERT INTO pm_epics (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("failed to seed epic %s: %v", id, err)
	}
}

// seedTicket inserts a ticket directly, bypassing the repository so tests
// control status, priority and sort order exactly.
func seedTicket(t *testing.T, conn *sql.DB, id, epicID, name, status, priority string, sortOrder int) {
	t.Helper()

	_, err := conn.Exec(
		"INSERT INTO pm_tickets (id, epic_id, name, status, priority, sort_order) VALUES (?, ?, ?, ?, ?, ?)",
		id, epicID, name, status, priority, sortOrder,
	)
	if err != nil {
		t.Fatalf("failed to seed ticket %s: %v", id, err)
	}
}

// seedDependency inserts a blocks-edge directly.
func seedDependency(t *testing.T, conn *sql.DB, id, sourceID, targetID string) {
	t.Helper()

	_, err := conn.Exec(
		"INSERT INTO pm_dependencies (id, source_type, source_id, target_type, target_id) VALUES (?, 'ticket', ?, 'ticket', ?)",
		id, sourceID, targetID,
	)
	if err != nil {
		t.Fatalf("failed to seed dependency %s: %v", id, err)
	}
}

// countHistory returns the number of ledger rows for a ticket.
func countHistory(t *testing.T, conn *sql.DB, ticketID string) int {
	t.Helper()

	var count int
	err := conn.QueryRow("SELECT COUNT(*) FROM pm_status_history WHERE ticket_id = ?", ticketID).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count history: %v", err)
	}
	return count
}

// lastHistory returns the most recent ledger row for a ticket.
func lastHistory(t *testing.T, conn *sql.DB, ticketID string) *secondary.StatusHistoryRecord {
	t.Helper()

	var fromStatus sql.NullString
	record := &secondary.StatusHistoryRecord{}
	err := conn.QueryRow(
		"SELECT id, ticket_id, from_status, to_status, changed_at, source FROM pm_status_history WHERE ticket_id = ? ORDER BY rowid DESC LIMIT 1",
		ticketID,
	).Scan(&record.ID, &record.TicketID, &fromStatus, &record.ToStatus, &record.ChangedAt, &record.Source)
	if err != nil {
		t.Fatalf("failed to get last history row: %v", err)
	}
	record.FromStatus = fromStatus.String
	return record
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

var testCtx = context.Background()
