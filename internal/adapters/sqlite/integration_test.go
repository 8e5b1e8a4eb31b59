package sqlite

import (
	"testing"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/secondary"
)

// TestTicketLifecycle drives a ticket through the full flow using the real
// repositories: created open, blocked behind a low-priority prerequisite,
// claimed once the prerequisite resolves, completed with a summary, with
// the ledger recording every hop.
func TestTicketLifecycle(t *testing.T) {
	conn := setupTestDB(t)

	epics := NewEpicRepository(conn)
	tickets := NewTicketRepository(conn)
	deps := NewDependencyRepository(conn)
	history := NewHistoryRepository(conn)
	scheduler := NewSchedulerStore(conn)

	ctx := ctxutil.WithSource(testCtx, models.SourceMCP)
	// The scheduler service stamps claims with its own source.
	schedCtx := ctxutil.WithSource(testCtx, models.SourceScheduler)

	epic := &secondary.EpicRecord{ID: "epic-1", Name: "Payments"}
	if err := epics.Create(ctx, epic); err != nil {
		t.Fatalf("create epic: %v", err)
	}

	urgent := &secondary.TicketRecord{ID: "tick-a", EpicID: "epic-1", Name: "Charge cards", Priority: models.PriorityCritical}
	if err := tickets.Create(ctx, urgent); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	prereq := &secondary.TicketRecord{ID: "tick-b", EpicID: "epic-1", Name: "Provision gateway", Priority: models.PriorityLow}
	if err := tickets.Create(ctx, prereq); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	if _, err := deps.CreateIfAbsent(ctx, &secondary.DependencyRecord{
		ID:         "dep-1",
		SourceType: models.EndpointTicket,
		SourceID:   "tick-a",
		TargetType: models.EndpointTicket,
		TargetID:   "tick-b",
	}); err != nil {
		t.Fatalf("create dependency: %v", err)
	}

	// The critical ticket is blocked, so the prerequisite goes first.
	claimed, err := scheduler.ClaimNext(schedCtx, true)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != "tick-b" {
		t.Fatalf("expected prerequisite claimed first, got %v", claimed)
	}

	if _, err := scheduler.Complete(ctx, "tick-b", "Gateway live in staging"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	claimed, err = scheduler.ClaimNext(schedCtx, true)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != "tick-a" {
		t.Fatalf("expected critical ticket after unblock, got %v", claimed)
	}

	done, err := scheduler.Complete(ctx, "tick-a", "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.StatusDone {
		t.Errorf("expected done, got '%s'", done.Status)
	}

	// Full ledger for the critical ticket: created, claimed, completed.
	entries, err := history.List(ctx, "tick-a")
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 ledger entries, got %d", len(entries))
	}
	transitions := []struct{ from, to, source string }{
		{"", models.StatusOpen, models.SourceMCP},
		{models.StatusOpen, models.StatusInProgress, models.SourceScheduler},
		{models.StatusInProgress, models.StatusDone, models.SourceMCP},
	}
	for i, want := range transitions {
		if entries[i].FromStatus != want.from || entries[i].ToStatus != want.to {
			t.Errorf("entry %d: expected '%s' -> '%s', got '%s' -> '%s'",
				i, want.from, want.to, entries[i].FromStatus, entries[i].ToStatus)
		}
		if entries[i].Source != want.source {
			t.Errorf("entry %d: expected source '%s', got '%s'", i, want.source, entries[i].Source)
		}
	}
}
