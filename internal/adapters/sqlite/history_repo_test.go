package sqlite

import (
	"testing"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/secondary"
)

func TestHistoryRepository_List(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewHistoryRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)
	seedTicket(t, conn, "tick-2", "epic-1", "Two", "open", "normal", 1)

	seed := []struct {
		id, ticket, from, to, at string
	}{
		{"h1", "tick-1", "", "open", "2026-01-01 10:00:00"},
		{"h2", "tick-1", "open", "in_progress", "2026-01-01 11:00:00"},
		{"h3", "tick-2", "", "open", "2026-01-01 10:30:00"},
	}
	for _, s := range seed {
		var from any
		if s.from != "" {
			from = s.from
		}
		_, err := conn.Exec(
			"INSERT INTO pm_status_history (id, ticket_id, from_status, to_status, changed_at) VALUES (?, ?, ?, ?, ?)",
			s.id, s.ticket, from, s.to, s.at,
		)
		if err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	entries, err := repo.List(testCtx, "tick-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "h1" || entries[1].ID != "h2" {
		t.Errorf("expected chronological order h1, h2; got %s, %s", entries[0].ID, entries[1].ID)
	}
	if entries[0].FromStatus != "" {
		t.Errorf("expected empty from_status on initial entry, got '%s'", entries[0].FromStatus)
	}

	all, err := repo.List(testCtx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries across tickets, got %d", len(all))
	}
}

func TestHistoryRepository_RecordsMutationSource(t *testing.T) {
	conn := setupTestDB(t)
	tickets := NewTicketRepository(conn)
	repo := NewHistoryRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")

	ctx := ctxutil.WithSource(testCtx, models.SourceScheduler)
	ticket := &secondary.TicketRecord{ID: "tick-1", EpicID: "epic-1", Name: "One"}
	if err := tickets.Create(ctx, ticket); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	entries, err := repo.List(testCtx, "tick-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Source != models.SourceScheduler {
		t.Errorf("expected source scheduler, got '%s'", entries[0].Source)
	}
}
