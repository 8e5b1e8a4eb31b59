package app

import (
	"context"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	historyRepo secondary.HistoryRepository
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(historyRepo secondary.HistoryRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{historyRepo: historyRepo}
}

// ListStatusHistory returns ledger entries in chronological order.
func (s *HistoryServiceImpl) ListStatusHistory(ctx context.Context, ticketID string) ([]*primary.StatusHistoryEntry, error) {
	records, err := s.historyRepo.List(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	entries := make([]*primary.StatusHistoryEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.StatusHistoryEntry{
			ID:         r.ID,
			TicketID:   r.TicketID,
			FromStatus: r.FromStatus,
			ToStatus:   r.ToStatus,
			ChangedAt:  r.ChangedAt,
			Source:     r.Source,
		}
	}
	return entries, nil
}

// Ensure HistoryServiceImpl implements the interface
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
