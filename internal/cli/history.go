package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/wire"
)

var historyCmd = &cobra.Command{
	Use:   "history [ticket-id]",
	Short: "Show the status history ledger",
	Long: `Show status transitions in chronological order. With a ticket-id,
only that ticket's entries are shown; otherwise the full ledger.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ticketID string
		if len(args) > 0 {
			ticketID = args[0]
		}

		entries, err := wire.HistoryService().ListStatusHistory(cliContext(), ticketID)
		if err != nil {
			return fmt.Errorf("failed to list status history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No history entries found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHANGED\tTICKET\tTRANSITION\tSOURCE")
		for _, entry := range entries {
			from := entry.FromStatus
			if from == "" {
				from = "(created)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s -> %s\t%s\n",
				entry.ChangedAt, entry.TicketID, from, entry.ToStatus, entry.Source)
		}
		return w.Flush()
	},
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return historyCmd
}
