package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// TicketServiceImpl implements the TicketService interface.
type TicketServiceImpl struct {
	ticketRepo secondary.TicketRepository
}

// NewTicketService creates a new TicketService with injected dependencies.
func NewTicketService(ticketRepo secondary.TicketRepository) *TicketServiceImpl {
	return &TicketServiceImpl{ticketRepo: ticketRepo}
}

// recordToTicket converts a persistence record to the port representation,
// decoding the stored context JSON into typed items.
func recordToTicket(record *secondary.TicketRecord) (*primary.Ticket, error) {
	items := []models.ContextItem{}
	if record.Context != "" {
		if err := json.Unmarshal([]byte(record.Context), &items); err != nil {
			return nil, fmt.Errorf("failed to decode ticket context: %w", err)
		}
	}

	return &primary.Ticket{
		ID:                    record.ID,
		EpicID:                record.EpicID,
		Name:                  record.Name,
		Description:           record.Description,
		Status:                record.Status,
		SortOrder:             record.SortOrder,
		Context:               items,
		StatusUpdatedAt:       record.StatusUpdatedAt,
		WorkingDirectory:      record.WorkingDirectory,
		Priority:              record.Priority,
		ModelPower:            record.ModelPower,
		NeedsHumanSupervision: record.NeedsHumanSupervision,
		CreatedAt:             record.CreatedAt,
		UpdatedAt:             record.UpdatedAt,
	}, nil
}

// ListTickets lists tickets with optional filters.
func (s *TicketServiceImpl) ListTickets(ctx context.Context, filters primary.TicketFilters) ([]*primary.Ticket, error) {
	records, err := s.ticketRepo.List(ctx, secondary.TicketFilters{
		Status: filters.Status,
		EpicID: filters.EpicID,
	})
	if err != nil {
		return nil, err
	}

	tickets := make([]*primary.Ticket, len(records))
	for i, r := range records {
		ticket, err := recordToTicket(r)
		if err != nil {
			return nil, err
		}
		tickets[i] = ticket
	}
	return tickets, nil
}

// CreateTicket creates an open ticket in an epic.
func (s *TicketServiceImpl) CreateTicket(ctx context.Context, req primary.CreateTicketRequest) (*primary.Ticket, error) {
	if req.EpicID == "" {
		return nil, fmt.Errorf("epic id is required")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("ticket name is required")
	}

	record := &secondary.TicketRecord{
		ID:          uuid.New().String(),
		EpicID:      req.EpicID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
	}

	if err := s.ticketRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return recordToTicket(record)
}

// UpdateTicket applies only the supplied fields.
func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, req primary.UpdateTicketRequest) (*primary.Ticket, error) {
	record, err := s.ticketRepo.Update(ctx, req.ID, secondary.TicketUpdate{
		Name:                  req.Name,
		Description:           req.Description,
		Status:                req.Status,
		Priority:              req.Priority,
		WorkingDirectory:      req.WorkingDirectory,
		ModelPower:            req.ModelPower,
		NeedsHumanSupervision: req.NeedsHumanSupervision,
	})
	if err != nil {
		return nil, err
	}

	return recordToTicket(record)
}

// DeleteTicket removes a ticket.
func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, ticketID string) error {
	return s.ticketRepo.Delete(ctx, ticketID)
}

// GetTicketContext returns the context items attached to a ticket.
func (s *TicketServiceImpl) GetTicketContext(ctx context.Context, ticketID string) ([]models.ContextItem, error) {
	return s.loadContext(ctx, ticketID)
}

// AddContextItem appends a snippet or file reference to a ticket's context.
func (s *TicketServiceImpl) AddContextItem(ctx context.Context, ticketID, itemType, value string) ([]models.ContextItem, error) {
	if !models.ValidContextType(itemType) {
		return nil, fmt.Errorf("invalid context type %q", itemType)
	}
	if value == "" {
		return nil, fmt.Errorf("context value is required")
	}

	items, err := s.loadContext(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	items = append(items, models.ContextItem{
		ID:    uuid.New().String(),
		Type:  itemType,
		Value: value,
	})

	if err := s.storeContext(ctx, ticketID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveContextItem removes one item by id. Unknown ids are a no-op.
func (s *TicketServiceImpl) RemoveContextItem(ctx context.Context, ticketID, itemID string) ([]models.ContextItem, error) {
	items, err := s.loadContext(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}

	if err := s.storeContext(ctx, ticketID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// ClearTicketContext removes all context items from a ticket.
func (s *TicketServiceImpl) ClearTicketContext(ctx context.Context, ticketID string) error {
	return s.storeContext(ctx, ticketID, []models.ContextItem{})
}

func (s *TicketServiceImpl) loadContext(ctx context.Context, ticketID string) ([]models.ContextItem, error) {
	raw, err := s.ticketRepo.GetContext(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	items := []models.ContextItem{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("failed to decode ticket context: %w", err)
		}
	}
	return items, nil
}

func (s *TicketServiceImpl) storeContext(ctx context.Context, ticketID string, items []models.ContextItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode ticket context: %w", err)
	}
	return s.ticketRepo.UpdateContext(ctx, ticketID, string(data))
}

// Ensure TicketServiceImpl implements the interface
var _ primary.TicketService = (*TicketServiceImpl)(nil)
