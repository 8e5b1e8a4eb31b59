package db

import (
	"database/sql"
	"fmt"
	"os"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_pm_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_needs_human_supervision_to_tickets",
		Up:      migrationV2,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(conn *sql.DB) error {
	if err := createMigrationsTable(conn); err != nil {
		return err
	}

	var currentVersion int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Fprintf(os.Stderr, "running migration %d: %s\n", migration.Version, migration.Name)

		if err := migration.Up(conn); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := recordMigration(conn, migration); err != nil {
			return err
		}
	}

	return nil
}

// migrationV1 creates the original pm_* tables. The supervision flag came
// later (V2), so the tickets table here lacks it.
func migrationV1(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS pm_epics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

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
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_pm_tickets_epic ON pm_tickets(epic_id);
		CREATE INDEX IF NOT EXISTS idx_pm_tickets_status ON pm_tickets(status);

		CREATE TABLE IF NOT EXISTS pm_dependencies (
			id TEXT PRIMARY KEY,
			source_type TEXT NOT NULL,
			source_id TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_id TEXT NOT NULL,
			UNIQUE(source_id, target_id)
		);

		CREATE TABLE IF NOT EXISTS pm_status_history (
			id TEXT PRIMARY KEY,
			ticket_id TEXT NOT NULL REFERENCES pm_tickets(id) ON DELETE CASCADE,
			from_status TEXT,
			to_status TEXT NOT NULL,
			changed_at TEXT NOT NULL DEFAULT (datetime('now')),
			source TEXT NOT NULL DEFAULT 'mcp'
		);

		CREATE INDEX IF NOT EXISTS idx_pm_status_history_ticket ON pm_status_history(ticket_id);

		CREATE TABLE IF NOT EXISTS pm_test_cases (
			id TEXT PRIMARY KEY,
			ticket_id TEXT NOT NULL REFERENCES pm_tickets(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`)
	return err
}

// migrationV2 adds the supervision flag used by the scheduler exclusions.
func migrationV2(conn *sql.DB) error {
	_, err := conn.Exec(`ALTER TABLE pm_tickets ADD COLUMN needs_human_supervision INTEGER NOT NULL DEFAULT 0`)
	return err
}
