// Package mcp exposes form sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/aretw0/stepform/pkg/runner"
	"github.com/aretw0/stepform/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SchemaURI is the resource holding the form definition.
const SchemaURI = "stepform://schema"

// StepResponse is returned by every session tool.
type StepResponse struct {
	View         domain.StepView `json:"view" jsonschema_description:"The active step: fields with values and errors, or the summary on the review step"`
	Moved        *bool           `json:"moved,omitempty" jsonschema_description:"Whether advance or retreat changed the step"`
	SubmissionID string          `json:"submission_id,omitempty" jsonschema_description:"Identifier of the handed-off submission"`
	Rejected     bool            `json:"rejected,omitempty" jsonschema_description:"True when submit was refused because fields are invalid"`
}

// SummaryResponse is returned by get_summary.
type SummaryResponse struct {
	Summary []domain.SummaryEntry `json:"summary" jsonschema_description:"Label and value of every field in step order"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	sessions  *session.Manager
	sanitizer runner.Sanitizer
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize limits the size of a single field value.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.sanitizer.MaxSize = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("stepform-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", allowCORS(sseServer.SSEHandler()))
	mux.Handle("/message", allowCORS(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_form",
		mcp.WithDescription("Start a new form session. Returns the session id and the first step."),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("set_field",
		mcp.WithDescription("Set the value of one field. The field is validated immediately."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by start_form")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field id")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Field value")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetField))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Validate the current step and move to the next one if it is valid."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleAdvance))

	s.mcpServer.AddTool(mcp.NewTool("retreat",
		mcp.WithDescription("Go back to the previous step. Values are kept."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleRetreat))

	s.mcpServer.AddTool(mcp.NewTool("submit",
		mcp.WithDescription("Submit the form from the review step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Get the label and value of every field. Secret values are masked."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[SummaryResponse](),
	), mcp.NewStructuredToolHandler(s.handleSummary))
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	state, err := s.sessions.Create(ctx, func(id string) *domain.State {
		return s.engine.Start(ctx, id)
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return StepResponse{View: s.render(state)}, nil
}

func (s *Server) handleSetField(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)
	field, _ := args["field"].(string)
	value, _ := args["value"].(string)

	clean, err := s.sanitizer.Sanitize(value)
	if err != nil {
		s.logger.Warn("MCP set_field: input rejected", "err", err, "size", len(value))
		return StepResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.SetField(ctx, st, field, clean)
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("set_field failed: %w", err)
	}
	return StepResponse{View: s.render(state)}, nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)
	var moved bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		var next *domain.State
		next, moved = s.engine.Advance(ctx, st)
		return next, nil
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("advance failed: %w", err)
	}
	return StepResponse{View: s.render(state), Moved: &moved}, nil
}

func (s *Server) handleRetreat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)
	var moved bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		var next *domain.State
		next, moved = s.engine.Retreat(ctx, st)
		return next, nil
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("retreat failed: %w", err)
	}
	return StepResponse{View: s.render(state), Moved: &moved}, nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)
	var sub *domain.Submission
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.State) (*domain.State, error) {
		var next *domain.State
		var err error
		next, sub, err = s.engine.Submit(ctx, st)
		return next, err
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	if sub == nil {
		return StepResponse{View: s.render(state), Rejected: true}, nil
	}
	return StepResponse{View: s.render(state), SubmissionID: sub.ID}, nil
}

func (s *Server) handleSummary(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SummaryResponse, error) {
	sessionID, _ := args["session_id"].(string)
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("get_summary failed: %w", err)
	}
	return SummaryResponse{Summary: maskSecrets(s.engine.Summary(state))}, nil
}

func (s *Server) render(state *domain.State) domain.StepView {
	return s.engine.Render(state).Masked()
}

func maskSecrets(entries []domain.SummaryEntry) []domain.SummaryEntry {
	if entries == nil {
		return nil
	}
	out := make([]domain.SummaryEntry, len(entries))
	for i, e := range entries {
		e.Value = e.DisplayValue()
		out[i] = e
	}
	return out
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SchemaURI, "Form Definition",
		mcp.WithMIMEType("application/json"),
	), s.readSchema)
}

func (s *Server) readSchema(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.engine.Schema())
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SchemaURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
