package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependency edges between tickets",
	Long: `A dependency edge means the source ticket is blocked until the
target ticket reaches done or archived. The scheduler's unblocked fetch
skips blocked tickets.`,
}

var depAddCmd = &cobra.Command{
	Use:   "add [source-id] [target-id]",
	Short: "Add a dependency (source is blocked by target)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceType, _ := cmd.Flags().GetString("source-type")
		targetType, _ := cmd.Flags().GetString("target-type")

		dep, err := wire.DependencyService().CreateDependency(cliContext(), primary.CreateDependencyRequest{
			SourceID:   args[0],
			TargetID:   args[1],
			SourceType: sourceType,
			TargetType: targetType,
		})
		if err != nil {
			return fmt.Errorf("failed to create dependency: %w", err)
		}

		fmt.Printf("✓ Dependency %s: %s blocked by %s\n", dep.ID, dep.SourceID, dep.TargetID)
		return nil
	},
}

var depListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dependency edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		ticketID, _ := cmd.Flags().GetString("ticket")

		deps, err := wire.DependencyService().ListDependencies(cliContext(), ticketID)
		if err != nil {
			return fmt.Errorf("failed to list dependencies: %w", err)
		}

		if len(deps) == 0 {
			fmt.Println("No dependencies found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE\tTARGET\tTARGET STATUS\t")
		for _, dep := range deps {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				dep.ID, dep.SourceName, dep.TargetName, dep.TargetStatus, blockLabel(dep.TargetStatus))
		}
		return w.Flush()
	},
}

var depRmCmd = &cobra.Command{
	Use:   "rm [dependency-id]",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.DependencyService().DeleteDependency(cliContext(), args[0]); err != nil {
			return fmt.Errorf("failed to delete dependency: %w", err)
		}

		fmt.Printf("✓ Dependency %s removed\n", args[0])
		return nil
	},
}

func init() {
	depAddCmd.Flags().String("source-type", "", "Source endpoint type: ticket or epic (default ticket)")
	depAddCmd.Flags().String("target-type", "", "Target endpoint type: ticket or epic (default ticket)")

	depListCmd.Flags().StringP("ticket", "t", "", "Only edges touching this ticket")

	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depListCmd)
	depCmd.AddCommand(depRmCmd)
}

// DepCmd returns the dep command
func DepCmd() *cobra.Command {
	return depCmd
}
