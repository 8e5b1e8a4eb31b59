package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/cli"
	"github.com/example/dispatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "dispatch",
		Short:   "dispatch - priority-aware ticket backend for autonomous agents",
		Version: version.String(),
		Long: `dispatch manages epics and tickets and hands work to autonomous agents.
Agents connect through 'dispatch serve' (MCP over stdio); the same operations
are available here for humans.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.EpicCmd())
	rootCmd.AddCommand(cli.TicketCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.DepCmd())
	rootCmd.AddCommand(cli.TestCaseCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
