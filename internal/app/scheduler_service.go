package app

import (
	"context"
	"fmt"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// SchedulerServiceImpl implements the SchedulerService interface. The
// at-most-one-claimant guarantee lives in the store; this layer only maps
// records to the port representation.
type SchedulerServiceImpl struct {
	store secondary.SchedulerStore
}

// NewSchedulerService creates a new SchedulerService with injected dependencies.
func NewSchedulerService(store secondary.SchedulerStore) *SchedulerServiceImpl {
	return &SchedulerServiceImpl{store: store}
}

// FetchNextTask claims the highest-priority open ticket. Returns nil when
// the queue is empty.
func (s *SchedulerServiceImpl) FetchNextTask(ctx context.Context) (*primary.Ticket, error) {
	return s.fetch(ctx, false)
}

// FetchNextUnblockedTask claims the highest-priority open ticket whose
// dependencies are all resolved. Returns nil when everything is blocked.
func (s *SchedulerServiceImpl) FetchNextUnblockedTask(ctx context.Context) (*primary.Ticket, error) {
	return s.fetch(ctx, true)
}

func (s *SchedulerServiceImpl) fetch(ctx context.Context, unblockedOnly bool) (*primary.Ticket, error) {
	// Claims are attributed to the scheduler in the ledger regardless of
	// which surface triggered the fetch.
	ctx = ctxutil.WithSource(ctx, models.SourceScheduler)

	record, err := s.store.ClaimNext(ctx, unblockedOnly)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	return recordToTicket(record)
}

// CompleteTask marks a ticket done, appending the summary when provided.
func (s *SchedulerServiceImpl) CompleteTask(ctx context.Context, req primary.CompleteTaskRequest) (*primary.Ticket, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("ticket id is required")
	}

	record, err := s.store.Complete(ctx, req.ID, req.Summary)
	if err != nil {
		return nil, err
	}

	return recordToTicket(record)
}

// Ensure SchedulerServiceImpl implements the interface
var _ primary.SchedulerService = (*SchedulerServiceImpl)(nil)
