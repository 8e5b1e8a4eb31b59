// Package wire provides dependency injection for the dispatch application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/app"
	"github.com/example/dispatch/internal/db"
	"github.com/example/dispatch/internal/ports/primary"
)

var (
	epicService       primary.EpicService
	ticketService     primary.TicketService
	schedulerService  primary.SchedulerService
	dependencyService primary.DependencyService
	historyService    primary.HistoryService
	once              sync.Once
)

// EpicService returns the singleton EpicService instance.
func EpicService() primary.EpicService {
	once.Do(initServices)
	return epicService
}

// TicketService returns the singleton TicketService instance.
func TicketService() primary.TicketService {
	once.Do(initServices)
	return ticketService
}

// SchedulerService returns the singleton SchedulerService instance.
func SchedulerService() primary.SchedulerService {
	once.Do(initServices)
	return schedulerService
}

// DependencyService returns the singleton DependencyService instance.
func DependencyService() primary.DependencyService {
	once.Do(initServices)
	return dependencyService
}

// HistoryService returns the singleton HistoryService instance.
func HistoryService() primary.HistoryService {
	once.Do(initServices)
	return historyService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) over the shared connection
	epicRepo := sqlite.NewEpicRepository(database)
	ticketRepo := sqlite.NewTicketRepository(database)
	schedulerStore := sqlite.NewSchedulerStore(database)
	dependencyRepo := sqlite.NewDependencyRepository(database)
	historyRepo := sqlite.NewHistoryRepository(database)
	testCaseRepo := sqlite.NewTestCaseRepository(database)

	// Services (primary ports implementation)
	epicService = app.NewEpicService(epicRepo, ticketRepo)
	ticketService = app.NewTicketService(ticketRepo)
	schedulerService = app.NewSchedulerService(schedulerStore)
	dependencyService = app.NewDependencyService(dependencyRepo, testCaseRepo)
	historyService = app.NewHistoryService(historyRepo)
}
