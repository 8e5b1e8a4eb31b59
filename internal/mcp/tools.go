package mcp

import (
	"context"
	"encoding/json"

	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
)

// Schema literal helpers. MCP input schemas are plain JSON Schema objects;
// the tool surface is small enough to declare them inline.

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func boolPtr(value bool) *bool {
	return &value
}

// readOnlyTool marks tools that never mutate state.
func readOnlyTool() *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(true),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

// mutatingTool marks additive mutations that are safe to repeat at the
// domain level when idempotent is set.
func mutatingTool(idempotent bool) *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(idempotent),
		OpenWorldHint:   boolPtr(false),
	}
}

// destructiveTool marks tools that remove data.
func destructiveTool() *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(true),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

func decodeArgs(args json.RawMessage, target any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, target); err != nil {
		return validationf("invalid arguments: %v", err)
	}
	return nil
}

// registerTools builds the full tool catalog.
func (s *Server) registerTools() []tool {
	return []tool{
		// --- Epics ---
		{
			toolDescription{
				Name:        "list_epics",
				Description: "List all epics with their ticket counts",
				InputSchema: objectSchema(map[string]any{}),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				return s.epics.ListEpics(ctx)
			},
		},
		{
			toolDescription{
				Name:        "create_epic",
				Description: "Create a new epic",
				InputSchema: objectSchema(map[string]any{
					"name":        stringProp("The name of the epic"),
					"description": stringProp("Optional description for the epic"),
				}, "name"),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.CreateEpicRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.epics.CreateEpic(ctx, req)
			},
		},
		{
			toolDescription{
				Name:        "get_epic_with_tickets",
				Description: "Get a single epic with all its tickets nested",
				InputSchema: objectSchema(map[string]any{
					"epicId": stringProp("The epic ID to retrieve"),
				}, "epicId"),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					EpicID string `json:"epicId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.epics.GetEpicWithTickets(ctx, req.EpicID)
			},
		},
		{
			toolDescription{
				Name:        "list_epics_with_tickets",
				Description: "List all epics with their full tickets nested inside each epic",
				InputSchema: objectSchema(map[string]any{}),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				return s.epics.ListEpicsWithTickets(ctx)
			},
		},
		{
			toolDescription{
				Name:        "update_epic",
				Description: "Update an existing epic's name or description",
				InputSchema: objectSchema(map[string]any{
					"id":          stringProp("The epic ID to update"),
					"name":        stringProp("New name"),
					"description": stringProp("New description"),
				}, "id"),
				Annotations: mutatingTool(true),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.UpdateEpicRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.epics.UpdateEpic(ctx, req)
			},
		},
		{
			toolDescription{
				Name:        "delete_epic",
				Description: "Delete an epic and all of its tickets",
				InputSchema: objectSchema(map[string]any{
					"epicId": stringProp("The epic ID to delete"),
				}, "epicId"),
				Annotations: destructiveTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					EpicID string `json:"epicId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				if err := s.epics.DeleteEpic(ctx, req.EpicID); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": req.EpicID}, nil
			},
		},

		// --- Tickets ---
		{
			toolDescription{
				Name:        "list_tickets",
				Description: "List tickets with optional status and epicId filters",
				InputSchema: objectSchema(map[string]any{
					"status": stringProp("Filter by ticket status (e.g. open, done)"),
					"epicId": stringProp("Filter by epic ID"),
				}),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var filters primary.TicketFilters
				if err := decodeArgs(args, &filters); err != nil {
					return nil, err
				}
				return s.tickets.ListTickets(ctx, filters)
			},
		},
		{
			toolDescription{
				Name:        "create_ticket",
				Description: "Create a new ticket in an epic",
				InputSchema: objectSchema(map[string]any{
					"epicId":      stringProp("The epic ID to create the ticket in"),
					"name":        stringProp("Ticket name"),
					"description": stringProp("Ticket description"),
					"priority":    stringProp("Ticket priority (default: normal)"),
				}, "epicId", "name"),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.CreateTicketRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.tickets.CreateTicket(ctx, req)
			},
		},
		{
			toolDescription{
				Name:        "update_ticket",
				Description: "Update an existing ticket",
				InputSchema: objectSchema(map[string]any{
					"id":               stringProp("The ticket ID to update"),
					"status":           stringProp("New status"),
					"name":             stringProp("New name"),
					"description":      stringProp("New description"),
					"priority":         stringProp("New priority"),
					"workingDirectory": stringProp("Working directory for agents picking up the ticket"),
					"modelPower":       stringProp("Model capability hint (low, medium, high, max)"),
					"needsHumanSupervision": boolProp(
						"Flag to require human supervision (skipped by automatic task fetching)"),
				}, "id"),
				Annotations: mutatingTool(true),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.UpdateTicketRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.tickets.UpdateTicket(ctx, req)
			},
		},
		{
			toolDescription{
				Name:        "delete_ticket",
				Description: "Delete a ticket along with its history and test cases",
				InputSchema: objectSchema(map[string]any{
					"id": stringProp("The ticket ID to delete"),
				}, "id"),
				Annotations: destructiveTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					ID string `json:"id"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				if err := s.tickets.DeleteTicket(ctx, req.ID); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": req.ID}, nil
			},
		},

		// --- Scheduler ---
		{
			toolDescription{
				Name: "fetch_next_task",
				Description: "Fetches the highest-priority open ticket, atomically sets it to in_progress, " +
					"and returns it. Returns null if no open tickets exist. " +
					"Skips tickets flagged as needing human supervision. " +
					"Priority order: critical > high > normal > low.",
				InputSchema: objectSchema(map[string]any{}),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				return s.scheduler.FetchNextTask(ctx)
			},
		},
		{
			toolDescription{
				Name: "fetch_next_unblocked_task",
				Description: "Like fetch_next_task but dependency-aware. Fetches the highest-priority open ticket " +
					"that has NO unfinished dependencies (all dependencies must be done or archived). " +
					"Atomically sets it to in_progress. Returns null if no unblocked open tickets exist. " +
					"Skips tickets flagged as needing human supervision. " +
					"Priority order: critical > high > normal > low.",
				InputSchema: objectSchema(map[string]any{}),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				return s.scheduler.FetchNextUnblockedTask(ctx)
			},
		},
		{
			toolDescription{
				Name:        "complete_task",
				Description: "Marks a ticket as done. Optionally appends a completion summary to the description.",
				InputSchema: objectSchema(map[string]any{
					"id":      stringProp("The ticket ID to mark as complete"),
					"summary": stringProp("Optional completion summary to append to the description"),
				}, "id"),
				Annotations: mutatingTool(true),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.CompleteTaskRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.scheduler.CompleteTask(ctx, req)
			},
		},

		// --- Dependencies and test cases ---
		{
			toolDescription{
				Name: "create_dependency",
				Description: "Create a dependency between two items (tickets or epics). " +
					"Idempotent - duplicates are ignored.",
				InputSchema: objectSchema(map[string]any{
					"sourceId":   stringProp("The source item ID"),
					"targetId":   stringProp("The target item ID (the item that source depends on)"),
					"sourceType": stringProp("Source type (default: ticket)"),
					"targetType": stringProp("Target type (default: ticket)"),
				}, "sourceId", "targetId"),
				Annotations: mutatingTool(true),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.CreateDependencyRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.dependencies.CreateDependency(ctx, req)
			},
		},
		{
			toolDescription{
				Name: "list_dependencies",
				Description: "List dependencies, optionally filtered by a specific ticket. " +
					"Returns enriched data with ticket names and statuses. " +
					"Semantics: source depends on target (target blocks source).",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("Optional ticket ID to filter dependencies for (as source or target)"),
				}),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.dependencies.ListDependencies(ctx, req.TicketID)
			},
		},
		{
			toolDescription{
				Name:        "delete_dependency",
				Description: "Delete a dependency edge by its ID",
				InputSchema: objectSchema(map[string]any{
					"id": stringProp("The dependency ID to delete"),
				}, "id"),
				Annotations: destructiveTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					ID string `json:"id"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				if err := s.dependencies.DeleteDependency(ctx, req.ID); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": req.ID}, nil
			},
		},
		{
			toolDescription{
				Name:        "create_test_case",
				Description: "Create a test case linked to a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID to link the test case to"),
					"title":    stringProp("Test case title"),
					"body":     stringProp("Test case body/description"),
				}, "ticketId", "title"),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req primary.CreateTestCaseRequest
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.dependencies.CreateTestCase(ctx, req)
			},
		},
		{
			toolDescription{
				Name:        "list_test_cases",
				Description: "List the test cases linked to a ticket",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID"),
				}, "ticketId"),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.dependencies.ListTestCases(ctx, req.TicketID)
			},
		},

		// --- Status history ---
		{
			toolDescription{
				Name:        "list_status_history",
				Description: "List status change history for all tickets or a specific ticket",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("Optional ticket ID to filter by"),
				}),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.history.ListStatusHistory(ctx, req.TicketID)
			},
		},

		// --- Ticket context ---
		{
			toolDescription{
				Name: "get_ticket_context",
				Description: "Get all context items (snippets and file references) attached to a ticket. " +
					"Context items are injected into the agent prompt when working on the ticket.",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID"),
				}, "ticketId"),
				Annotations: readOnlyTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.tickets.GetTicketContext(ctx, req.TicketID)
			},
		},
		{
			toolDescription{
				Name: "add_context_snippet",
				Description: "Attach a text/code snippet to a ticket as context. " +
					"The snippet will be included verbatim in the agent prompt. " +
					"Returns the full updated context.",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID"),
					"value":    stringProp("The snippet text or code to attach"),
				}, "ticketId", "value"),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
					Value    string `json:"value"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.tickets.AddContextItem(ctx, req.TicketID, models.ContextSnippet, req.Value)
			},
		},
		{
			toolDescription{
				Name: "add_context_file",
				Description: "Attach a file reference to a ticket as context. " +
					"The file path is relative to the project root. " +
					"The file content will be read and included in the agent prompt. " +
					"Returns the full updated context.",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID"),
					"filePath": stringProp("Relative path to the file from the project root (e.g. internal/app/epic_service.go)"),
				}, "ticketId", "filePath"),
				Annotations: mutatingTool(false),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
					FilePath string `json:"filePath"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.tickets.AddContextItem(ctx, req.TicketID, models.ContextFile, req.FilePath)
			},
		},
		{
			toolDescription{
				Name: "remove_context_item",
				Description: "Remove a specific context item from a ticket by its item id. " +
					"Use get_ticket_context to retrieve item ids first. " +
					"Returns the full updated context.",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID"),
					"itemId":   stringProp("The context item ID to remove"),
				}, "ticketId", "itemId"),
				Annotations: destructiveTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
					ItemID   string `json:"itemId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				return s.tickets.RemoveContextItem(ctx, req.TicketID, req.ItemID)
			},
		},
		{
			toolDescription{
				Name:        "clear_ticket_context",
				Description: "Remove all context items (snippets and file references) from a ticket.",
				InputSchema: objectSchema(map[string]any{
					"ticketId": stringProp("The ticket ID"),
				}, "ticketId"),
				Annotations: destructiveTool(),
			},
			func(ctx context.Context, args json.RawMessage) (any, error) {
				var req struct {
					TicketID string `json:"ticketId"`
				}
				if err := decodeArgs(args, &req); err != nil {
					return nil, err
				}
				if err := s.tickets.ClearTicketContext(ctx, req.TicketID); err != nil {
					return nil, err
				}
				return map[string]any{"ticketId": req.TicketID, "context": []models.ContextItem{}}, nil
			},
		},
	}
}
