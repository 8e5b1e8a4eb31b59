package app

import (
	"context"
	"fmt"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockEpicRepository implements secondary.EpicRepository for testing.
type mockEpicRepository struct {
	epics     map[string]*secondary.EpicRecord
	order     []string
	createErr error
	listErr   error
}

func newMockEpicRepository() *mockEpicRepository {
	return &mockEpicRepository{epics: make(map[string]*secondary.EpicRecord)}
}

func (m *mockEpicRepository) Create(ctx context.Context, epic *secondary.EpicRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	epic.SortOrder = len(m.order)
	epic.CreatedAt = "2026-01-01 10:00:00"
	epic.UpdatedAt = "2026-01-01 10:00:00"
	m.epics[epic.ID] = epic
	m.order = append(m.order, epic.ID)
	return nil
}

func (m *mockEpicRepository) GetByID(ctx context.Context, id string) (*secondary.EpicRecord, error) {
	if epic, ok := m.epics[id]; ok {
		return epic, nil
	}
	return nil, fmt.Errorf("epic %s: %w", id, secondary.ErrNotFound)
}

func (m *mockEpicRepository) List(ctx context.Context) ([]*secondary.EpicRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*secondary.EpicRecord, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.epics[id])
	}
	return result, nil
}

func (m *mockEpicRepository) Update(ctx context.Context, id string, update secondary.EpicUpdate) (*secondary.EpicRecord, error) {
	epic, ok := m.epics[id]
	if !ok {
		return nil, fmt.Errorf("epic %s: %w", id, secondary.ErrNotFound)
	}
	if update.Name != nil {
		epic.Name = *update.Name
	}
	if update.Description != nil {
		epic.Description = *update.Description
	}
	return epic, nil
}

func (m *mockEpicRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.epics[id]; !ok {
		return fmt.Errorf("epic %s: %w", id, secondary.ErrNotFound)
	}
	delete(m.epics, id)
	return nil
}

// mockTicketRepository implements secondary.TicketRepository for testing.
type mockTicketRepository struct {
	tickets   map[string]*secondary.TicketRecord
	order     []string
	createErr error
	updateErr error
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{tickets: make(map[string]*secondary.TicketRecord)}
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *secondary.TicketRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	ticket.Status = models.StatusOpen
	if ticket.Priority == "" {
		ticket.Priority = models.PriorityNormal
	}
	ticket.Context = "[]"
	ticket.SortOrder = len(m.order) + 1
	m.tickets[ticket.ID] = ticket
	m.order = append(m.order, ticket.ID)
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id string) (*secondary.TicketRecord, error) {
	if ticket, ok := m.tickets[id]; ok {
		return ticket, nil
	}
	return nil, fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
}

func (m *mockTicketRepository) List(ctx context.Context, filters secondary.TicketFilters) ([]*secondary.TicketRecord, error) {
	var result []*secondary.TicketRecord
	for _, id := range m.order {
		t := m.tickets[id]
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.EpicID != "" && t.EpicID != filters.EpicID {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTicketRepository) ListByEpic(ctx context.Context, epicID string) ([]*secondary.TicketRecord, error) {
	return m.List(ctx, secondary.TicketFilters{EpicID: epicID})
}

func (m *mockTicketRepository) Update(ctx context.Context, id string, update secondary.TicketUpdate) (*secondary.TicketRecord, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	if update.Name != nil {
		ticket.Name = *update.Name
	}
	if update.Description != nil {
		ticket.Description = *update.Description
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	if update.WorkingDirectory != nil {
		ticket.WorkingDirectory = *update.WorkingDirectory
	}
	if update.ModelPower != nil {
		ticket.ModelPower = *update.ModelPower
	}
	if update.NeedsHumanSupervision != nil {
		ticket.NeedsHumanSupervision = *update.NeedsHumanSupervision
	}
	return ticket, nil
}

func (m *mockTicketRepository) GetContext(ctx context.Context, id string) (string, error) {
	ticket, ok := m.tickets[id]
	if !ok {
		return "", fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	return ticket.Context, nil
}

func (m *mockTicketRepository) UpdateContext(ctx context.Context, id string, contextJSON string) error {
	ticket, ok := m.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	ticket.Context = contextJSON
	return nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.tickets[id]; !ok {
		return fmt.Errorf("ticket %s: %w", id, secondary.ErrNotFound)
	}
	delete(m.tickets, id)
	return nil
}

// mockSchedulerStore implements secondary.SchedulerStore for testing.
type mockSchedulerStore struct {
	next        *secondary.TicketRecord
	nextErr     error
	completed   map[string]string // id -> summary
	completeErr error
	lastClaim   struct {
		called        bool
		unblockedOnly bool
		source        string
	}
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{completed: make(map[string]string)}
}

func (m *mockSchedulerStore) ClaimNext(ctx context.Context, unblockedOnly bool) (*secondary.TicketRecord, error) {
	m.lastClaim.called = true
	m.lastClaim.unblockedOnly = unblockedOnly
	m.lastClaim.source = ctxutil.SourceFromContext(ctx)
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	return m.next, nil
}

func (m *mockSchedulerStore) Complete(ctx context.Context, id string, summary string) (*secondary.TicketRecord, error) {
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	m.completed[id] = summary
	record := &secondary.TicketRecord{ID: id, Status: models.StatusDone, Context: "[]"}
	if summary != "" {
		record.Description = models.CompletionSummarySeparator + summary
	}
	return record, nil
}

// mockDependencyRepository implements secondary.DependencyRepository for testing.
type mockDependencyRepository struct {
	deps      map[string]*secondary.DependencyRecord // "source|target" -> record
	createErr error
}

func newMockDependencyRepository() *mockDependencyRepository {
	return &mockDependencyRepository{deps: make(map[string]*secondary.DependencyRecord)}
}

func (m *mockDependencyRepository) CreateIfAbsent(ctx context.Context, dep *secondary.DependencyRecord) (*secondary.DependencyRecord, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	key := dep.SourceID + "|" + dep.TargetID
	if existing, ok := m.deps[key]; ok {
		return existing, nil
	}
	m.deps[key] = dep
	return dep, nil
}

func (m *mockDependencyRepository) List(ctx context.Context, ticketID string) ([]*secondary.DependencyInfoRecord, error) {
	var result []*secondary.DependencyInfoRecord
	for _, d := range m.deps {
		if ticketID != "" && d.SourceID != ticketID && d.TargetID != ticketID {
			continue
		}
		result = append(result, &secondary.DependencyInfoRecord{
			DependencyRecord: *d,
			SourceName:       d.SourceID,
			TargetName:       d.TargetID,
		})
	}
	return result, nil
}

func (m *mockDependencyRepository) Delete(ctx context.Context, id string) error {
	for key, d := range m.deps {
		if d.ID == id {
			delete(m.deps, key)
			return nil
		}
	}
	return fmt.Errorf("dependency %s: %w", id, secondary.ErrNotFound)
}

// mockHistoryRepository implements secondary.HistoryRepository for testing.
type mockHistoryRepository struct {
	entries []*secondary.StatusHistoryRecord
	listErr error
}

func (m *mockHistoryRepository) List(ctx context.Context, ticketID string) ([]*secondary.StatusHistoryRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.StatusHistoryRecord
	for _, e := range m.entries {
		if ticketID != "" && e.TicketID != ticketID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// mockTestCaseRepository implements secondary.TestCaseRepository for testing.
type mockTestCaseRepository struct {
	cases     map[string][]*secondary.TestCaseRecord // ticketID -> cases
	createErr error
}

func newMockTestCaseRepository() *mockTestCaseRepository {
	return &mockTestCaseRepository{cases: make(map[string][]*secondary.TestCaseRecord)}
}

func (m *mockTestCaseRepository) Create(ctx context.Context, tc *secondary.TestCaseRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	tc.SortOrder = len(m.cases[tc.TicketID]) + 1
	m.cases[tc.TicketID] = append(m.cases[tc.TicketID], tc)
	return nil
}

func (m *mockTestCaseRepository) ListByTicket(ctx context.Context, ticketID string) ([]*secondary.TestCaseRecord, error) {
	return m.cases[ticketID], nil
}

// Interface checks
var (
	_ secondary.EpicRepository       = (*mockEpicRepository)(nil)
	_ secondary.TicketRepository     = (*mockTicketRepository)(nil)
	_ secondary.SchedulerStore       = (*mockSchedulerStore)(nil)
	_ secondary.DependencyRepository = (*mockDependencyRepository)(nil)
	_ secondary.HistoryRepository    = (*mockHistoryRepository)(nil)
	_ secondary.TestCaseRepository   = (*mockTestCaseRepository)(nil)
)
