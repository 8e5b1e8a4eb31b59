// Package app contains the service implementations behind the primary ports.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// EpicServiceImpl implements the EpicService interface.
type EpicServiceImpl struct {
	epicRepo   secondary.EpicRepository
	ticketRepo secondary.TicketRepository
}

// NewEpicService creates a new EpicService with injected dependencies.
func NewEpicService(epicRepo secondary.EpicRepository, ticketRepo secondary.TicketRepository) *EpicServiceImpl {
	return &EpicServiceImpl{
		epicRepo:   epicRepo,
		ticketRepo: ticketRepo,
	}
}

// recordToEpic converts a persistence record to the port representation.
func recordToEpic(record *secondary.EpicRecord) *primary.Epic {
	return &primary.Epic{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		SortOrder:   record.SortOrder,
		TicketCount: record.TicketCount,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// ListEpics returns all epics with their ticket counts.
func (s *EpicServiceImpl) ListEpics(ctx context.Context) ([]*primary.Epic, error) {
	records, err := s.epicRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	epics := make([]*primary.Epic, len(records))
	for i, r := range records {
		epics[i] = recordToEpic(r)
	}
	return epics, nil
}

// CreateEpic creates a new epic at the end of the sort order.
func (s *EpicServiceImpl) CreateEpic(ctx context.Context, req primary.CreateEpicRequest) (*primary.Epic, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("epic name is required")
	}

	record := &secondary.EpicRecord{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.epicRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return recordToEpic(record), nil
}

// GetEpicWithTickets returns one epic with its tickets nested.
func (s *EpicServiceImpl) GetEpicWithTickets(ctx context.Context, epicID string) (*primary.EpicWithTickets, error) {
	record, err := s.epicRepo.GetByID(ctx, epicID)
	if err != nil {
		return nil, err
	}

	return s.withTickets(ctx, record)
}

// ListEpicsWithTickets returns every epic with its nested tickets.
func (s *EpicServiceImpl) ListEpicsWithTickets(ctx context.Context) ([]*primary.EpicWithTickets, error) {
	records, err := s.epicRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*primary.EpicWithTickets, len(records))
	for i, r := range records {
		nested, err := s.withTickets(ctx, r)
		if err != nil {
			return nil, err
		}
		result[i] = nested
	}
	return result, nil
}

func (s *EpicServiceImpl) withTickets(ctx context.Context, record *secondary.EpicRecord) (*primary.EpicWithTickets, error) {
	ticketRecords, err := s.ticketRepo.ListByEpic(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list epic tickets: %w", err)
	}

	tickets := make([]*primary.Ticket, len(ticketRecords))
	for i, tr := range ticketRecords {
		ticket, err := recordToTicket(tr)
		if err != nil {
			return nil, err
		}
		tickets[i] = ticket
	}

	return &primary.EpicWithTickets{
		Epic:    *recordToEpic(record),
		Tickets: tickets,
	}, nil
}

// UpdateEpic applies the supplied fields to an epic.
func (s *EpicServiceImpl) UpdateEpic(ctx context.Context, req primary.UpdateEpicRequest) (*primary.Epic, error) {
	record, err := s.epicRepo.Update(ctx, req.ID, secondary.EpicUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	return recordToEpic(record), nil
}

// DeleteEpic removes an epic and cascades to its tickets.
func (s *EpicServiceImpl) DeleteEpic(ctx context.Context, epicID string) error {
	return s.epicRepo.Delete(ctx, epicID)
}

// Ensure EpicServiceImpl implements the interface
var _ primary.EpicService = (*EpicServiceImpl)(nil)
