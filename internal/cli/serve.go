package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/mcp"
	"github.com/example/dispatch/internal/version"
	"github.com/example/dispatch/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Run the MCP tool server, reading JSON-RPC 2.0 requests from stdin
and writing responses to stdout. Intended to be launched by an MCP client;
diagnostics go to stderr to keep the protocol stream clean.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(
			wire.EpicService(),
			wire.TicketService(),
			wire.SchedulerService(),
			wire.DependencyService(),
			wire.HistoryService(),
			version.String(),
		)

		fmt.Fprintln(os.Stderr, "dispatch MCP server listening on stdio")
		return server.Serve(context.Background())
	},
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
