package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

var testcaseCmd = &cobra.Command{
	Use:   "testcase",
	Short: "Manage acceptance test cases attached to tickets",
}

var testcaseAddCmd = &cobra.Command{
	Use:   "add [ticket-id] [title]",
	Short: "Attach a test case to a ticket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := cmd.Flags().GetString("body")

		tc, err := wire.DependencyService().CreateTestCase(cliContext(), primary.CreateTestCaseRequest{
			TicketID: args[0],
			Title:    args[1],
			Body:     body,
		})
		if err != nil {
			return fmt.Errorf("failed to create test case: %w", err)
		}

		fmt.Printf("✓ Test case %s added to ticket %s (#%d)\n", tc.ID, tc.TicketID, tc.SortOrder)
		return nil
	},
}

var testcaseListCmd = &cobra.Command{
	Use:   "list [ticket-id]",
	Short: "List a ticket's test cases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, err := wire.DependencyService().ListTestCases(cliContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list test cases: %w", err)
		}

		if len(cases) == 0 {
			fmt.Println("No test cases found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tID\tTITLE")
		for _, tc := range cases {
			fmt.Fprintf(w, "%d\t%s\t%s\n", tc.SortOrder, tc.ID, tc.Title)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		for _, tc := range cases {
			if tc.Body != "" {
				fmt.Printf("\n%d. %s\n%s\n", tc.SortOrder, tc.Title, tc.Body)
			}
		}
		return nil
	},
}

func init() {
	testcaseAddCmd.Flags().StringP("body", "b", "", "Test case body")

	testcaseCmd.AddCommand(testcaseAddCmd)
	testcaseCmd.AddCommand(testcaseListCmd)
}

// TestCaseCmd returns the testcase command
func TestCaseCmd() *cobra.Command {
	return testcaseCmd
}
