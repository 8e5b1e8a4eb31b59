// Package cli implements the dispatch command-line interface. Every command
// talks to the same services the MCP surface uses; mutations made here are
// attributed to the cli source in the status ledger.
package cli

import (
	"context"

	"github.com/fatih/color"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
)

// cliContext returns the context used by all CLI commands, with the
// mutation source stamped for the status ledger.
func cliContext() context.Context {
	return ctxutil.WithSource(context.Background(), models.SourceCLI)
}

// Helper function for status icons
func getStatusIcon(status string) string {
	switch status {
	case models.StatusOpen:
		return "📦"
	case models.StatusInProgress:
		return "🔄"
	case models.StatusDone:
		return "✅"
	case models.StatusArchived:
		return "🗄️"
	default:
		return "•"
	}
}

// priorityLabel renders a priority with a color matching its scheduling
// rank. Unknown priorities print uncolored.
func priorityLabel(priority string) string {
	switch models.PriorityRank(priority) {
	case 0:
		return color.New(color.FgRed, color.Bold).Sprint(priority)
	case 1:
		return color.New(color.FgYellow).Sprint(priority)
	case 2:
		return priority
	case 3:
		return color.New(color.FgHiBlack).Sprint(priority)
	default:
		return priority
	}
}

// blockLabel renders whether a dependency target still blocks its source.
func blockLabel(targetStatus string) string {
	if targetStatus == "" {
		return color.New(color.FgHiBlack).Sprint("orphan")
	}
	if models.IsResolved(targetStatus) {
		return color.New(color.FgHiGreen).Sprint("resolved")
	}
	return color.New(color.FgRed).Sprint("blocking")
}
