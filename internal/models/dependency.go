package models

// Endpoint types for dependency edges. Source depends on target (target
// blocks source). Only ticket-typed targets are evaluated for blocking;
// epic targets never block.
const (
	EndpointTicket = "ticket"
	EndpointEpic   = "epic"
)

// Well-known status history sources, recorded on every ledger row.
const (
	SourceMCP       = "mcp"
	SourceCLI       = "cli"
	SourceScheduler = "scheduler"
)
