package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete modern schema for fresh dispatch installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// build their in-memory databases from GetSchemaSQL(); do not hardcode
// CREATE TABLE statements in test files. When adding a column or table,
// add a migration in migrations.go and update SchemaSQL here.
const SchemaSQL = `
-- Epics (grouping containers for tickets)
CREATE TABLE IF NOT EXISTS pm_epics (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Tickets (atomic units of work)
CREATE TABLE IF NOT EXISTS pm_tickets (
	id TEXT PRIMARY KEY,
	epic_id TEXT NOT NULL REFERENCES pm_epics(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'open',
	sort_order INTEGER NOT NULL DEFAULT 0,
	context TEXT NOT NULL DEFAULT '[]',
	status_updated_at TEXT NOT NULL DEFAULT (datetime('now')),
	working_directory TEXT,
	priority TEXT NOT NULL DEFAULT 'normal',
	model_power TEXT,
	needs_human_supervision INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pm_tickets_epic ON pm_tickets(epic_id);
CREATE INDEX IF NOT EXISTS idx_pm_tickets_status ON pm_tickets(status);

-- Dependencies (source depends on target; no FKs so that edges may
-- outlive their endpoints as harmless orphans)
CREATE TABLE IF NOT EXISTS pm_dependencies (
	id TEXT PRIMARY KEY,
	source_type TEXT NOT NULL,
	source_id TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id TEXT NOT NULL,
	UNIQUE(source_id, target_id)
);

-- Status history (append-only audit ledger)
CREATE TABLE IF NOT EXISTS pm_status_history (
	id TEXT PRIMARY KEY,
	ticket_id TEXT NOT NULL REFERENCES pm_tickets(id) ON DELETE CASCADE,
	from_status TEXT,
	to_status TEXT NOT NULL,
	changed_at TEXT NOT NULL DEFAULT (datetime('now')),
	source TEXT NOT NULL DEFAULT 'mcp'
);

CREATE INDEX IF NOT EXISTS idx_pm_status_history_ticket ON pm_status_history(ticket_id);

-- Test cases (acceptance criteria attached to tickets)
CREATE TABLE IF NOT EXISTS pm_test_cases (
	id TEXT PRIMARY KEY,
	ticket_id TEXT NOT NULL REFERENCES pm_tickets(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	body TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// InitSchema creates the database schema on a fresh install or runs any
// pending migrations on an existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the modern schema directly and mark all
		// migrations as applied so they never run against it.
		if _, err := conn.Exec(SchemaSQL); err != nil {
			return err
		}
		if err := createMigrationsTable(conn); err != nil {
			return err
		}
		for _, m := range migrations {
			if err := recordMigration(conn, m); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations(conn)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

func createMigrationsTable(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

func recordMigration(conn *sql.DB, m Migration) error {
	if _, err := conn.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	return nil
}
