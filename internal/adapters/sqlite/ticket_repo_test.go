package sqlite

import (
	"errors"
	"testing"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/secondary"
)

func TestTicketRepository_Create(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")

	ticket := &secondary.TicketRecord{ID: "tick-1", EpicID: "epic-1", Name: "Do the thing"}
	if err := repo.Create(testCtx, ticket); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if ticket.Status != models.StatusOpen {
		t.Errorf("expected status open, got '%s'", ticket.Status)
	}
	if ticket.Priority != models.PriorityNormal {
		t.Errorf("expected priority normal, got '%s'", ticket.Priority)
	}
	if ticket.Context != "[]" {
		t.Errorf("expected empty context array, got '%s'", ticket.Context)
	}
	if ticket.SortOrder != 1 {
		t.Errorf("expected sort order 1, got %d", ticket.SortOrder)
	}

	// The initial ledger entry has no prior status.
	if got := countHistory(t, conn, "tick-1"); got != 1 {
		t.Fatalf("expected 1 history row, got %d", got)
	}
	entry := lastHistory(t, conn, "tick-1")
	if entry.FromStatus != "" {
		t.Errorf("expected empty from_status, got '%s'", entry.FromStatus)
	}
	if entry.ToStatus != models.StatusOpen {
		t.Errorf("expected to_status open, got '%s'", entry.ToStatus)
	}
}

func TestTicketRepository_Create_SortOrderPerEpic(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "First")
	seedEpic(t, conn, "epic-2", "Second")
	seedTicket(t, conn, "existing", "epic-1", "Existing", "open", "normal", 4)

	sameEpic := &secondary.TicketRecord{ID: "tick-1", EpicID: "epic-1", Name: "Same epic"}
	if err := repo.Create(testCtx, sameEpic); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sameEpic.SortOrder != 5 {
		t.Errorf("expected sort order 5, got %d", sameEpic.SortOrder)
	}

	otherEpic := &secondary.TicketRecord{ID: "tick-2", EpicID: "epic-2", Name: "Other epic"}
	if err := repo.Create(testCtx, otherEpic); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if otherEpic.SortOrder != 1 {
		t.Errorf("expected sort order 1 in fresh epic, got %d", otherEpic.SortOrder)
	}
}

func TestTicketRepository_Create_MissingEpic(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	ticket := &secondary.TicketRecord{ID: "tick-1", EpicID: "missing", Name: "Orphan"}
	err := repo.Create(testCtx, ticket)
	if !errors.Is(err, secondary.ErrForeignKey) {
		t.Errorf("expected ErrForeignKey, got %v", err)
	}

	if got := countHistory(t, conn, "tick-1"); got != 0 {
		t.Errorf("expected no history rows after failed create, got %d", got)
	}
}

func TestTicketRepository_List_Filters(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "First")
	seedEpic(t, conn, "epic-2", "Second")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)
	seedTicket(t, conn, "tick-2", "epic-1", "Two", "done", "normal", 1)
	seedTicket(t, conn, "tick-3", "epic-2", "Three", "open", "normal", 0)

	open, err := repo.List(testCtx, secondary.TicketFilters{Status: "open"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("expected 2 open tickets, got %d", len(open))
	}

	both, err := repo.List(testCtx, secondary.TicketFilters{Status: "open", EpicID: "epic-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(both) != 1 || both[0].ID != "tick-1" {
		t.Errorf("expected just tick-1, got %d tickets", len(both))
	}

	all, err := repo.List(testCtx, secondary.TicketFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tickets, got %d", len(all))
	}
}

func TestTicketRepository_Update_StatusChangeWritesLedger(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)

	ctx := ctxutil.WithSource(testCtx, models.SourceCLI)
	updated, err := repo.Update(ctx, "tick-1", secondary.TicketUpdate{Status: strPtr(models.StatusInProgress)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("expected status in_progress, got '%s'", updated.Status)
	}

	entry := lastHistory(t, conn, "tick-1")
	if entry.FromStatus != models.StatusOpen || entry.ToStatus != models.StatusInProgress {
		t.Errorf("expected open -> in_progress, got '%s' -> '%s'", entry.FromStatus, entry.ToStatus)
	}
	if entry.Source != models.SourceCLI {
		t.Errorf("expected source cli, got '%s'", entry.Source)
	}
}

func TestTicketRepository_Update_SameStatusNoLedger(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)

	before, err := repo.GetByID(testCtx, "tick-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	updated, err := repo.Update(testCtx, "tick-1", secondary.TicketUpdate{
		Status: strPtr(models.StatusOpen),
		Name:   strPtr("Renamed"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Renamed" {
		t.Errorf("expected name 'Renamed', got '%s'", updated.Name)
	}
	if updated.StatusUpdatedAt != before.StatusUpdatedAt {
		t.Error("expected status_updated_at untouched when status unchanged")
	}
	if got := countHistory(t, conn, "tick-1"); got != 0 {
		t.Errorf("expected no history rows, got %d", got)
	}
}

func TestTicketRepository_Update_SparseFields(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)

	updated, err := repo.Update(testCtx, "tick-1", secondary.TicketUpdate{
		Priority:              strPtr(models.PriorityCritical),
		WorkingDirectory:      strPtr("/srv/app"),
		ModelPower:            strPtr("max"),
		NeedsHumanSupervision: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Priority != models.PriorityCritical {
		t.Errorf("expected priority critical, got '%s'", updated.Priority)
	}
	if updated.WorkingDirectory != "/srv/app" {
		t.Errorf("expected working directory '/srv/app', got '%s'", updated.WorkingDirectory)
	}
	if updated.ModelPower != "max" {
		t.Errorf("expected model power 'max', got '%s'", updated.ModelPower)
	}
	if !updated.NeedsHumanSupervision {
		t.Error("expected supervision flag set")
	}
	if updated.Name != "One" {
		t.Errorf("expected name untouched, got '%s'", updated.Name)
	}
}

func TestTicketRepository_Update_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	_, err := repo.Update(testCtx, "missing", secondary.TicketUpdate{Name: strPtr("x")})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTicketRepository_Context(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)

	raw, err := repo.GetContext(testCtx, "tick-1")
	if err != nil {
		t.Fatalf("GetContext failed: %v", err)
	}
	if raw != "[]" {
		t.Errorf("expected '[]', got '%s'", raw)
	}

	payload := `[{"id":"c1","type":"snippet","value":"use the v2 endpoint"}]`
	if err := repo.UpdateContext(testCtx, "tick-1", payload); err != nil {
		t.Fatalf("UpdateContext failed: %v", err)
	}

	raw, err = repo.GetContext(testCtx, "tick-1")
	if err != nil {
		t.Fatalf("GetContext failed: %v", err)
	}
	if raw != payload {
		t.Errorf("expected stored payload, got '%s'", raw)
	}

	if _, err := repo.GetContext(testCtx, "missing"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTicketRepository_Delete(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTicketRepository(conn)

	seedEpic(t, conn, "epic-1", "Epic")
	seedTicket(t, conn, "tick-1", "epic-1", "One", "open", "normal", 0)
	seedDependency(t, conn, "dep-1", "tick-1", "other")
	if _, err := conn.Exec(
		"INSERT INTO pm_status_history (id, ticket_id, to_status) VALUES ('hist-1', 'tick-1', 'open')",
	); err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}

	if err := repo.Delete(testCtx, "tick-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got := countHistory(t, conn, "tick-1"); got != 0 {
		t.Errorf("expected history to cascade, got %d rows", got)
	}

	// Dependency edges survive as orphans.
	var deps int
	if err := conn.QueryRow("SELECT COUNT(*) FROM pm_dependencies").Scan(&deps); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if deps != 1 {
		t.Errorf("expected orphaned edge to remain, got %d", deps)
	}

	if err := repo.Delete(testCtx, "tick-1"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
