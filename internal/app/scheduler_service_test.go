package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

func TestSchedulerService_FetchNextTask(t *testing.T) {
	store := newMockSchedulerStore()
	store.next = &secondary.TicketRecord{
		ID:      "tick-1",
		EpicID:  "epic-1",
		Name:    "One",
		Status:  models.StatusInProgress,
		Context: "[]",
	}
	svc := NewSchedulerService(store)

	ticket, err := svc.FetchNextTask(context.Background())
	if err != nil {
		t.Fatalf("FetchNextTask failed: %v", err)
	}

	if ticket.ID != "tick-1" {
		t.Errorf("expected tick-1, got '%s'", ticket.ID)
	}
	if store.lastClaim.unblockedOnly {
		t.Error("expected plain fetch to ignore dependencies")
	}
}

func TestSchedulerService_FetchNextUnblockedTask(t *testing.T) {
	store := newMockSchedulerStore()
	svc := NewSchedulerService(store)

	ticket, err := svc.FetchNextUnblockedTask(context.Background())
	if err != nil {
		t.Fatalf("FetchNextUnblockedTask failed: %v", err)
	}

	// Empty queue is not an error.
	if ticket != nil {
		t.Errorf("expected nil ticket, got %v", ticket.ID)
	}
	if !store.lastClaim.unblockedOnly {
		t.Error("expected dependency-aware fetch")
	}
}

func TestSchedulerService_Fetch_AttributesClaimToScheduler(t *testing.T) {
	store := newMockSchedulerStore()
	svc := NewSchedulerService(store)

	// Even when the fetch arrives through another surface, the claim's
	// ledger entry is attributed to the scheduler.
	ctx := ctxutil.WithSource(context.Background(), models.SourceCLI)
	if _, err := svc.FetchNextTask(ctx); err != nil {
		t.Fatalf("FetchNextTask failed: %v", err)
	}
	if store.lastClaim.source != models.SourceScheduler {
		t.Errorf("expected scheduler source, got '%s'", store.lastClaim.source)
	}

	if _, err := svc.FetchNextUnblockedTask(ctx); err != nil {
		t.Fatalf("FetchNextUnblockedTask failed: %v", err)
	}
	if store.lastClaim.source != models.SourceScheduler {
		t.Errorf("expected scheduler source, got '%s'", store.lastClaim.source)
	}
}

func TestSchedulerService_CompleteTask(t *testing.T) {
	store := newMockSchedulerStore()
	svc := NewSchedulerService(store)

	ticket, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{
		ID:      "tick-1",
		Summary: "Shipped behind a flag",
	})
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	if ticket.Status != models.StatusDone {
		t.Errorf("expected status done, got '%s'", ticket.Status)
	}
	if store.completed["tick-1"] != "Shipped behind a flag" {
		t.Errorf("expected summary forwarded, got '%s'", store.completed["tick-1"])
	}
}

func TestSchedulerService_CompleteTask_RequiresID(t *testing.T) {
	svc := NewSchedulerService(newMockSchedulerStore())

	if _, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestSchedulerService_CompleteTask_NotFound(t *testing.T) {
	store := newMockSchedulerStore()
	store.completeErr = secondary.ErrNotFound
	svc := NewSchedulerService(store)

	_, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{ID: "missing"})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
