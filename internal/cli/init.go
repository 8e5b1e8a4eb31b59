package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/config"
	"github.com/example/dispatch/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the dispatch database",
		Long:  `Initialize the dispatch database at ~/.dispatch/dispatch.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := config.DatabasePath()
			if err != nil {
				return fmt.Errorf("failed to resolve database path: %w", err)
			}

			fmt.Printf("Initializing dispatch database at %s\n", dbPath)

			// Opening runs schema creation and pending migrations
			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file created at ~/.dispatch/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  dispatch epic create \"My First Epic\"")
			fmt.Println("  dispatch ticket create \"My first ticket\" --epic <epic-id>")
			fmt.Println("  dispatch serve   # expose the MCP tool surface")

			return nil
		},
	}
}

// initConfig writes the default config.json unless one already exists.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	if _, err := config.LoadConfig(home); err == nil {
		return nil // Already exists, skip
	}

	return config.SaveConfig(home, &config.Config{Version: "1"})
}
