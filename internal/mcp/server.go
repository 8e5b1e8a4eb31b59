package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/models"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// Server exposes the project-management services as MCP tools over
// JSON-RPC 2.0 on newline-delimited stdio.
type Server struct {
	epics        primary.EpicService
	tickets      primary.TicketService
	scheduler    primary.SchedulerService
	dependencies primary.DependencyService
	history      primary.HistoryService

	tools       []tool
	toolsByName map[string]*tool
	version     string
	initialized bool
}

// tool pairs a description with its handler. Handlers return the value to
// serialize into the text content block, or an error for an isError result.
type tool struct {
	toolDescription
	handler func(ctx context.Context, args json.RawMessage) (any, error)
}

// NewServer creates an MCP server over the given services.
func NewServer(
	epics primary.EpicService,
	tickets primary.TicketService,
	scheduler primary.SchedulerService,
	dependencies primary.DependencyService,
	history primary.HistoryService,
	version string,
) *Server {
	s := &Server{
		epics:        epics,
		tickets:      tickets,
		scheduler:    scheduler,
		dependencies: dependencies,
		history:      history,
		version:      version,
	}

	s.tools = s.registerTools()
	s.toolsByName = make(map[string]*tool, len(s.tools))
	for i := range s.tools {
		s.toolsByName[s.tools[i].Name] = &s.tools[i]
	}

	return s
}

// Serve reads from stdin and writes to stdout until EOF. All mutations
// performed through the server are attributed to the mcp source in the
// status ledger.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, os.Stdin, os.Stdout)
}

// Run processes JSON-RPC 2.0 requests from input and writes responses to
// output until input reaches EOF. One request per line.
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	ctx = ctxutil.WithSource(ctx, models.SourceMCP)

	scanner := bufio.NewScanner(input)
	// Tool results carrying full ticket lists can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error()); writeErr != nil {
				return fmt.Errorf("failed to write parse error response: %w", writeErr)
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version"); writeErr != nil {
					return fmt.Errorf("failed to write version error response: %w", writeErr)
				}
			}
			continue
		}

		// Notifications receive no response.
		if req.isNotification() {
			continue
		}

		if err := s.dispatch(ctx, encoder, &req); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, encoder *json.Encoder, req *request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return writeResult(encoder, req.ID, map[string]any{})
	case "tools/list":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(ctx, encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for initialize")
	}

	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	s.initialized = true

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Tools: &toolCapability{},
		},
		ServerInfo: serverInfo{
			Name:    "dispatch",
			Version: s.version,
		},
	})
}

func (s *Server) handleToolsList(encoder *json.Encoder, req *request) error {
	descriptions := make([]toolDescription, len(s.tools))
	for i, t := range s.tools {
		descriptions[i] = t.toolDescription
	}
	return writeResult(encoder, req.ID, toolsListResult{Tools: descriptions})
}

func (s *Server) handleToolsCall(ctx context.Context, encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for tools/call")
	}

	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	t, ok := s.toolsByName[params.Name]
	if !ok {
		return writeError(encoder, req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	value, runErr := t.handler(ctx, params.Arguments)
	return writeResult(encoder, req.ID, buildToolResult(value, runErr))
}

// buildToolResult serializes a handler's return value into a text content
// block, or classifies its error.
func buildToolResult(value any, runErr error) toolsCallResult {
	if runErr != nil {
		return toolsCallResult{
			Content:   []contentBlock{{Type: "text", Text: runErr.Error()}},
			IsError:   true,
			ErrorInfo: classifyError(runErr),
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return toolsCallResult{
			Content:   []contentBlock{{Type: "text", Text: "failed to encode result: " + err.Error()}},
			IsError:   true,
			ErrorInfo: &errorInfo{Category: "internal"},
		}
	}

	return toolsCallResult{
		Content: []contentBlock{{Type: "text", Text: string(data)}},
	}
}

// classifyError maps service errors to structured categories. Nothing the
// server does is retryable by repetition alone, so Retryable stays false.
func classifyError(err error) *errorInfo {
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return &errorInfo{Category: "not_found"}
	case errors.Is(err, secondary.ErrForeignKey):
		return &errorInfo{Category: "validation"}
	case isValidationError(err):
		return &errorInfo{Category: "validation"}
	default:
		return &errorInfo{Category: "internal"}
	}
}

// validationError marks handler-level argument errors.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func isValidationError(err error) bool {
	var ve *validationError
	return errors.As(err, &ve)
}

// writeResult sends a JSON-RPC 2.0 success response.
func writeResult(encoder *json.Encoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// writeError sends a JSON-RPC 2.0 error response.
func writeError(encoder *json.Encoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}
