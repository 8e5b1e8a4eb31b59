package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Claim and complete scheduled work",
	Long: `Scheduler operations. 'task next' claims the highest-priority open
ticket exactly the way an agent would through the MCP surface, so it is the
quickest way to inspect what the scheduler will hand out next.`,
}

var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Claim the next open ticket and mark it in_progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		unblocked, _ := cmd.Flags().GetBool("unblocked")

		var (
			ticket *primary.Ticket
			err    error
		)
		if unblocked {
			ticket, err = wire.SchedulerService().FetchNextUnblockedTask(cliContext())
		} else {
			ticket, err = wire.SchedulerService().FetchNextTask(cliContext())
		}
		if err != nil {
			return fmt.Errorf("failed to fetch next task: %w", err)
		}

		if ticket == nil {
			fmt.Println("No open tickets to claim")
			return nil
		}

		fmt.Printf("✓ Claimed %s: %s (%s)\n", ticket.ID, ticket.Name, priorityLabel(ticket.Priority))
		if ticket.Description != "" {
			fmt.Printf("  %s\n", ticket.Description)
		}
		if ticket.WorkingDirectory != "" {
			fmt.Printf("  Working directory: %s\n", ticket.WorkingDirectory)
		}
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [ticket-id]",
	Short: "Mark a ticket done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, _ := cmd.Flags().GetString("summary")

		ticket, err := wire.SchedulerService().CompleteTask(cliContext(), primary.CompleteTaskRequest{
			ID:      args[0],
			Summary: summary,
		})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Printf("✓ Ticket %s marked as done\n", ticket.ID)
		return nil
	},
}

func init() {
	taskNextCmd.Flags().Bool("unblocked", false, "Skip tickets with unresolved dependencies")

	taskCompleteCmd.Flags().StringP("summary", "m", "", "Completion summary appended to the description")

	taskCmd.AddCommand(taskNextCmd)
	taskCmd.AddCommand(taskCompleteCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}
