package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// DependencyServiceImpl implements the DependencyService interface.
type DependencyServiceImpl struct {
	depRepo      secondary.DependencyRepository
	testCaseRepo secondary.TestCaseRepository
}

// NewDependencyService creates a new DependencyService with injected dependencies.
func NewDependencyService(depRepo secondary.DependencyRepository, testCaseRepo secondary.TestCaseRepository) *DependencyServiceImpl {
	return &DependencyServiceImpl{
		depRepo:      depRepo,
		testCaseRepo: testCaseRepo,
	}
}

// CreateDependency inserts a blocks-edge, returning the existing edge when
// the pair is already present.
func (s *DependencyServiceImpl) CreateDependency(ctx context.Context, req primary.CreateDependencyRequest) (*primary.Dependency, error) {
	if req.SourceID == "" || req.TargetID == "" {
		return nil, fmt.Errorf("source and target ids are required")
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = models.EndpointTicket
	}
	targetType := req.TargetType
	if targetType == "" {
		targetType = models.EndpointTicket
	}

	record, err := s.depRepo.CreateIfAbsent(ctx, &secondary.DependencyRecord{
		ID:         uuid.New().String(),
		SourceType: sourceType,
		SourceID:   req.SourceID,
		TargetType: targetType,
		TargetID:   req.TargetID,
	})
	if err != nil {
		return nil, err
	}

	return &primary.Dependency{
		ID:         record.ID,
		SourceType: record.SourceType,
		SourceID:   record.SourceID,
		TargetType: record.TargetType,
		TargetID:   record.TargetID,
	}, nil
}

// ListDependencies returns edges enriched with endpoint names and statuses.
func (s *DependencyServiceImpl) ListDependencies(ctx context.Context, ticketID string) ([]*primary.DependencyInfo, error) {
	records, err := s.depRepo.List(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	deps := make([]*primary.DependencyInfo, len(records))
	for i, r := range records {
		deps[i] = &primary.DependencyInfo{
			Dependency: primary.Dependency{
				ID:         r.ID,
				SourceType: r.SourceType,
				SourceID:   r.SourceID,
				TargetType: r.TargetType,
				TargetID:   r.TargetID,
			},
			SourceName:   r.SourceName,
			SourceStatus: r.SourceStatus,
			TargetName:   r.TargetName,
			TargetStatus: r.TargetStatus,
		}
	}
	return deps, nil
}

// DeleteDependency removes an edge by id.
func (s *DependencyServiceImpl) DeleteDependency(ctx context.Context, id string) error {
	return s.depRepo.Delete(ctx, id)
}

// CreateTestCase attaches a test case to a ticket.
func (s *DependencyServiceImpl) CreateTestCase(ctx context.Context, req primary.CreateTestCaseRequest) (*primary.TestCase, error) {
	if req.TicketID == "" {
		return nil, fmt.Errorf("ticket id is required")
	}
	if req.Title == "" {
		return nil, fmt.Errorf("test case title is required")
	}

	record := &secondary.TestCaseRecord{
		ID:       uuid.New().String(),
		TicketID: req.TicketID,
		Title:    req.Title,
		Body:     req.Body,
	}

	if err := s.testCaseRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return recordToTestCase(record), nil
}

// ListTestCases returns a ticket's test cases ordered by sort order.
func (s *DependencyServiceImpl) ListTestCases(ctx context.Context, ticketID string) ([]*primary.TestCase, error) {
	records, err := s.testCaseRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	cases := make([]*primary.TestCase, len(records))
	for i, r := range records {
		cases[i] = recordToTestCase(r)
	}
	return cases, nil
}

func recordToTestCase(record *secondary.TestCaseRecord) *primary.TestCase {
	return &primary.TestCase{
		ID:        record.ID,
		TicketID:  record.TicketID,
		Title:     record.Title,
		Body:      record.Body,
		SortOrder: record.SortOrder,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// Ensure DependencyServiceImpl implements the interface
var _ primary.DependencyService = (*DependencyServiceImpl)(nil)
