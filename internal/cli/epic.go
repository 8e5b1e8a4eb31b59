package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

var epicCmd = &cobra.Command{
	Use:   "epic",
	Short: "Manage epics (top-level work containers)",
	Long:  "Create, list, update, and delete epics in the dispatch database",
}

var epicCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new epic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		epic, err := wire.EpicService().CreateEpic(cliContext(), primary.CreateEpicRequest{
			Name:        args[0],
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("failed to create epic: %w", err)
		}

		fmt.Printf("✓ Created epic %s: %s\n", epic.ID, epic.Name)
		fmt.Println()
		fmt.Println("💡 Next steps:")
		fmt.Printf("   dispatch ticket create \"Ticket name\" --epic %s\n", epic.ID)
		return nil
	},
}

var epicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List epics",
	RunE: func(cmd *cobra.Command, args []string) error {
		epics, err := wire.EpicService().ListEpics(cliContext())
		if err != nil {
			return fmt.Errorf("failed to list epics: %w", err)
		}

		if len(epics) == 0 {
			fmt.Println("No epics found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTICKETS\tCREATED")
		for _, epic := range epics {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", epic.ID, epic.Name, epic.TicketCount, epic.CreatedAt)
		}
		return w.Flush()
	},
}

var epicShowCmd = &cobra.Command{
	Use:   "show [epic-id]",
	Short: "Show epic details with its tickets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		epic, err := wire.EpicService().GetEpicWithTickets(cliContext(), args[0])
		if err != nil {
			return fmt.Errorf("epic not found: %w", err)
		}

		fmt.Printf("Epic: %s\n", epic.ID)
		fmt.Printf("Name: %s\n", epic.Name)
		if epic.Description != "" {
			fmt.Printf("Description: %s\n", epic.Description)
		}
		fmt.Printf("Created: %s\n", epic.CreatedAt)
		fmt.Println()

		fmt.Printf("Tickets (%d):\n", len(epic.Tickets))
		for _, ticket := range epic.Tickets {
			icon := getStatusIcon(ticket.Status)
			fmt.Printf("  %s %s: %s [%s] (%s)\n", icon, ticket.ID, ticket.Name, ticket.Status, priorityLabel(ticket.Priority))
		}
		return nil
	},
}

var epicUpdateCmd = &cobra.Command{
	Use:   "update [epic-id]",
	Short: "Update epic name and/or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdateEpicRequest{ID: args[0]}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			req.Description = &description
		}

		if req.Name == nil && req.Description == nil {
			return fmt.Errorf("must specify --name and/or --description")
		}

		epic, err := wire.EpicService().UpdateEpic(cliContext(), req)
		if err != nil {
			return fmt.Errorf("failed to update epic: %w", err)
		}

		fmt.Printf("✓ Epic %s updated\n", epic.ID)
		return nil
	},
}

var epicDeleteCmd = &cobra.Command{
	Use:   "delete [epic-id]",
	Short: "Delete an epic and all of its tickets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.EpicService().DeleteEpic(cliContext(), args[0]); err != nil {
			return fmt.Errorf("failed to delete epic: %w", err)
		}

		fmt.Printf("✓ Epic %s deleted\n", args[0])
		return nil
	},
}

var epicExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump every epic with its tickets as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		epics, err := wire.EpicService().ListEpicsWithTickets(cliContext())
		if err != nil {
			return fmt.Errorf("failed to export epics: %w", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(epics)
	},
}

func init() {
	epicCreateCmd.Flags().StringP("description", "d", "", "Epic description")

	epicUpdateCmd.Flags().String("name", "", "New name")
	epicUpdateCmd.Flags().StringP("description", "d", "", "New description")

	epicCmd.AddCommand(epicCreateCmd)
	epicCmd.AddCommand(epicListCmd)
	epicCmd.AddCommand(epicShowCmd)
	epicCmd.AddCommand(epicUpdateCmd)
	epicCmd.AddCommand(epicDeleteCmd)
	epicCmd.AddCommand(epicExportCmd)
}

// EpicCmd returns the epic command
func EpicCmd() *cobra.Command {
	return epicCmd
}
