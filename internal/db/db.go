package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/dispatch/internal/config"
)

var shared *sql.DB

// Open opens (and creates if needed) the database at path, enables foreign
// keys, sets a busy timeout so concurrent writers queue instead of failing,
// and brings the schema up to date.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}

// GetDB returns the shared database connection, initializing it from the
// configured path on first use.
func GetDB() (*sql.DB, error) {
	if shared != nil {
		return shared, nil
	}

	path, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	shared, err = Open(path)
	if err != nil {
		return nil, err
	}

	return shared, nil
}

// Close closes the shared database connection
func Close() error {
	if shared != nil {
		err := shared.Close()
		shared = nil
		return err
	}
	return nil
}
