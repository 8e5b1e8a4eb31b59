package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Manage tickets",
	Long:  "Create, list, update, and delete tickets, and manage their attached context",
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		epicID, _ := cmd.Flags().GetString("epic")
		byPriority, _ := cmd.Flags().GetBool("by-priority")

		tickets, err := wire.TicketService().ListTickets(cliContext(), primary.TicketFilters{
			Status: status,
			EpicID: epicID,
		})
		if err != nil {
			return fmt.Errorf("failed to list tickets: %w", err)
		}

		if len(tickets) == 0 {
			fmt.Println("No tickets found")
			return nil
		}

		if byPriority {
			sort.SliceStable(tickets, func(i, j int) bool {
				return models.PriorityRank(tickets[i].Priority) < models.PriorityRank(tickets[j].Priority)
			})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tID\tNAME\tSTATUS\tPRIORITY\tEPIC")
		for _, ticket := range tickets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				getStatusIcon(ticket.Status), ticket.ID, ticket.Name, ticket.Status,
				priorityLabel(ticket.Priority), ticket.EpicID)
		}
		return w.Flush()
	},
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new ticket in an epic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		epicID, _ := cmd.Flags().GetString("epic")
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")

		ticket, err := wire.TicketService().CreateTicket(cliContext(), primary.CreateTicketRequest{
			EpicID:      epicID,
			Name:        args[0],
			Description: description,
			Priority:    priority,
		})
		if err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}

		fmt.Printf("✓ Created ticket %s: %s (%s)\n", ticket.ID, ticket.Name, priorityLabel(ticket.Priority))
		return nil
	},
}

var ticketUpdateCmd = &cobra.Command{
	Use:   "update [ticket-id]",
	Short: "Update ticket fields",
	Long: `Update any combination of a ticket's fields. Only flags you pass
are changed. A status change is recorded in the status history ledger.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := primary.UpdateTicketRequest{ID: args[0]}

		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			req.Priority = &v
		}
		if cmd.Flags().Changed("working-dir") {
			v, _ := cmd.Flags().GetString("working-dir")
			req.WorkingDirectory = &v
		}
		if cmd.Flags().Changed("model-power") {
			v, _ := cmd.Flags().GetString("model-power")
			req.ModelPower = &v
		}
		if cmd.Flags().Changed("supervised") {
			v, _ := cmd.Flags().GetBool("supervised")
			req.NeedsHumanSupervision = &v
		}

		ticket, err := wire.TicketService().UpdateTicket(cliContext(), req)
		if err != nil {
			return fmt.Errorf("failed to update ticket: %w", err)
		}

		fmt.Printf("✓ Ticket %s updated [%s]\n", ticket.ID, ticket.Status)
		return nil
	},
}

var ticketDeleteCmd = &cobra.Command{
	Use:   "delete [ticket-id]",
	Short: "Delete a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.TicketService().DeleteTicket(cliContext(), args[0]); err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}

		fmt.Printf("✓ Ticket %s deleted\n", args[0])
		return nil
	},
}

var ticketContextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage a ticket's attached context items",
}

var ticketContextShowCmd = &cobra.Command{
	Use:   "show [ticket-id]",
	Short: "Show a ticket's context items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := wire.TicketService().GetTicketContext(cliContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get context: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No context items")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tVALUE")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.Type, item.Value)
		}
		return w.Flush()
	},
}

var ticketContextAddCmd = &cobra.Command{
	Use:   "add [ticket-id] [value]",
	Short: "Attach a snippet or file reference to a ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemType, _ := cmd.Flags().GetString("type")

		items, err := wire.TicketService().AddContextItem(cliContext(), args[0], itemType, args[1])
		if err != nil {
			return fmt.Errorf("failed to add context item: %w", err)
		}

		fmt.Printf("✓ Added %s to ticket %s (%d item(s) attached)\n", itemType, args[0], len(items))
		return nil
	},
}

var ticketContextRmCmd = &cobra.Command{
	Use:   "rm [ticket-id] [item-id]",
	Short: "Remove one context item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := wire.TicketService().RemoveContextItem(cliContext(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to remove context item: %w", err)
		}

		fmt.Printf("✓ Removed item from ticket %s (%d item(s) remain)\n", args[0], len(items))
		return nil
	},
}

var ticketContextClearCmd = &cobra.Command{
	Use:   "clear [ticket-id]",
	Short: "Remove all context items from a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.TicketService().ClearTicketContext(cliContext(), args[0]); err != nil {
			return fmt.Errorf("failed to clear context: %w", err)
		}

		fmt.Printf("✓ Context cleared for ticket %s\n", args[0])
		return nil
	},
}

func init() {
	ticketListCmd.Flags().StringP("status", "s", "", "Filter by status")
	ticketListCmd.Flags().StringP("epic", "e", "", "Filter by epic")
	ticketListCmd.Flags().Bool("by-priority", false, "Sort by scheduling priority instead of sort order")

	ticketCreateCmd.Flags().StringP("epic", "e", "", "Epic ID (required)")
	ticketCreateCmd.MarkFlagRequired("epic")
	ticketCreateCmd.Flags().StringP("description", "d", "", "Ticket description")
	ticketCreateCmd.Flags().StringP("priority", "p", "", "Priority: critical, high, normal, low (default normal)")

	ticketUpdateCmd.Flags().StringP("status", "s", "", "New status")
	ticketUpdateCmd.Flags().String("name", "", "New name")
	ticketUpdateCmd.Flags().StringP("description", "d", "", "New description")
	ticketUpdateCmd.Flags().StringP("priority", "p", "", "New priority")
	ticketUpdateCmd.Flags().String("working-dir", "", "Working directory for agents")
	ticketUpdateCmd.Flags().String("model-power", "", "Model power hint")
	ticketUpdateCmd.Flags().Bool("supervised", false, "Require human supervision (scheduler skips the ticket)")

	ticketContextAddCmd.Flags().StringP("type", "t", "snippet", "Item type: snippet or file")

	ticketContextCmd.AddCommand(ticketContextShowCmd)
	ticketContextCmd.AddCommand(ticketContextAddCmd)
	ticketContextCmd.AddCommand(ticketContextRmCmd)
	ticketContextCmd.AddCommand(ticketContextClearCmd)

	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketUpdateCmd)
	ticketCmd.AddCommand(ticketDeleteCmd)
	ticketCmd.AddCommand(ticketContextCmd)
}

// TicketCmd returns the ticket command
func TicketCmd() *cobra.Command {
	return ticketCmd
}
