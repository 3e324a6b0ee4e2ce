// Package http exposes form sessions over a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/aretw0/stepform/pkg/runner"
	"github.com/aretw0/stepform/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves form sessions kept in a session.Manager.
type Server struct {
	Engine    ports.Engine
	Sessions  *session.Manager
	Streams   *StreamManager
	Sanitizer runner.Sanitizer
	Version   string

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h (usually promhttp) on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMaxInputSize limits the size of a single field value.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.Sanitizer.MaxSize = n
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewServer creates a Server.
func NewServer(engine ports.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/schema", s.GetSchema)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/fields/{field}", s.SetField)
			r.Post("/advance", s.Advance)
			r.Post("/retreat", s.Retreat)
			r.Post("/submit", s.Submit)
			r.Get("/summary", s.GetSummary)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionResponse is the body returned by every session endpoint.
type SessionResponse struct {
	domain.StepView
	Moved        *bool  `json:"moved,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

// FieldRequest is the body of PUT /sessions/{id}/fields/{field}.
type FieldRequest struct {
	Value string `json:"value"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	form := s.Engine.Schema()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "stepform-http",
		"version": s.Version,
		"form":    form.ID,
		"steps":   form.ReviewStep(),
	})
}

// GetSchema handles the GET /schema request.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Schema())
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Create(r.Context(), func(id string) *domain.State {
		return s.Engine.Start(r.Context(), id)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, SessionResponse{StepView: s.render(state)})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, SessionResponse{StepView: s.render(state)})
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetField handles the PUT /sessions/{id}/fields/{field} request.
func (s *Server) SetField(w http.ResponseWriter, r *http.Request) {
	var body FieldRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("SetField: invalid request body", "err", err)
		return
	}

	value, err := s.Sanitizer.Sanitize(body.Value)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
		s.logger.Warn("SetField: input rejected", "err", err, "size", len(body.Value))
		return
	}

	field := chi.URLParam(r, "field")
	state, err := s.transition(r, func(st *domain.State) (*domain.State, error) {
		return s.Engine.SetField(r.Context(), st, field, value)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, SessionResponse{StepView: s.render(state)})
}

// Advance handles the POST /sessions/{id}/advance request.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	var moved bool
	state, err := s.transition(r, func(st *domain.State) (*domain.State, error) {
		var next *domain.State
		next, moved = s.Engine.Advance(r.Context(), st)
		return next, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, SessionResponse{StepView: s.render(state), Moved: &moved})
}

// Retreat handles the POST /sessions/{id}/retreat request.
func (s *Server) Retreat(w http.ResponseWriter, r *http.Request) {
	var moved bool
	state, err := s.transition(r, func(st *domain.State) (*domain.State, error) {
		var next *domain.State
		next, moved = s.Engine.Retreat(r.Context(), st)
		return next, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, SessionResponse{StepView: s.render(state), Moved: &moved})
}

// Submit handles the POST /sessions/{id}/submit request.
// A draft rejected by validation answers 422 with the errors in the view.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var sub *domain.Submission
	state, err := s.transition(r, func(st *domain.State) (*domain.State, error) {
		var next *domain.State
		var err error
		next, sub, err = s.Engine.Submit(r.Context(), st)
		return next, err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sub == nil {
		s.respond(w, http.StatusUnprocessableEntity, SessionResponse{StepView: s.render(state)})
		return
	}
	s.respond(w, http.StatusOK, SessionResponse{StepView: s.render(state), SubmissionID: sub.ID})
}

// GetSummary handles the GET /sessions/{id}/summary request.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"summary": maskSecrets(s.Engine.Summary(state))})
}

// transition runs fn under the session lock and, when the state changed,
// broadcasts the masked step view to the session's subscribers.
func (s *Server) transition(r *http.Request, fn func(*domain.State) (*domain.State, error)) (*domain.State, error) {
	id := chi.URLParam(r, "id")
	var before *domain.State
	after, err := s.Sessions.Update(r.Context(), id, func(st *domain.State) (*domain.State, error) {
		before = st.Snapshot()
		return fn(st)
	})
	if after != nil && before != nil {
		if diff := domain.Diff(before, after); diff != nil && !diff.IsEmpty() {
			if data, mErr := json.Marshal(s.render(after)); mErr == nil {
				s.Streams.Broadcast(id, string(data))
			}
		}
	}
	return after, err
}

// render is the view every client sees; secret values never leave the server.
func (s *Server) render(state *domain.State) domain.StepView {
	return s.Engine.Render(state).Masked()
}

func maskSecrets(entries []domain.SummaryEntry) []domain.SummaryEntry {
	out := make([]domain.SummaryEntry, len(entries))
	for i, e := range entries {
		e.Value = e.DisplayValue()
		out[i] = e
	}
	return out
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotOnReviewStep):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrHandOff):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) respond(w http.ResponseWriter, status int, resp SessionResponse) {
	s.writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
