package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// MaxRunSteps is the largest step limit a run request may ask for. It
// matches the maximum of max_steps in openapi.yaml.
const MaxRunSteps = runner.MaxRequestSteps

// Server serves the engine over JSON.
type Server struct {
	Engine   ports.Engine
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithGatherer selects the registry exposed on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// NewHandler creates the HTTP handler for the engine. Requests to the /v1
// routes are validated against the embedded OpenAPI document first.
func NewHandler(engine ports.Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:   engine,
		Logger:   logging.NewNop(),
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	validator, err := newRequestValidator(s.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(OpenAPI())
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody, validator.middleware)
		r.Post("/validate", s.Validate)
		r.Post("/run", s.Run)
		r.Post("/transform/{kind}", s.Transform)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// DocumentRequest carries a machine document.
type DocumentRequest struct {
	Document  string `json:"document"`
	MultiTape bool   `json:"multi_tape"`
}

// RunRequest is a DocumentRequest with an optional step limit.
type RunRequest struct {
	DocumentRequest
	MaxSteps int `json:"max_steps"`
}

// ValidateResponse describes a valid machine.
type ValidateResponse struct {
	Valid         bool     `json:"valid"`
	StartState    string   `json:"start_state"`
	States        []string `json:"states"`
	HaltingStates []string `json:"halting_states,omitempty"`
	Tapes         int      `json:"tapes"`
}

// TransformResponse is the generated machine. Document is its YAML text.
type TransformResponse struct {
	domain.TransformEntry
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Reason  string          `json:"reason,omitempty"`
	Details *domain.Details `json:"details,omitempty"`
}

// Validate handles POST /v1/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body DocumentRequest
	if !s.decode(w, r, &body) {
		return
	}
	spec, err := s.Engine.Parse(r.Context(), []byte(body.Document), body.MultiTape)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.reply(w, ValidateResponse{
		Valid:         true,
		StartState:    spec.StartState,
		States:        spec.Table.States(),
		HaltingStates: spec.HaltingStates(),
		Tapes:         spec.TapeCount(),
	})
}

// Run handles POST /v1/run.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}
	spec, err := s.Engine.Parse(r.Context(), []byte(body.Document), body.MultiTape)
	if err != nil {
		s.fail(w, err)
		return
	}
	report, err := s.Engine.Run(r.Context(), spec, min(max(body.MaxSteps, 0), MaxRunSteps))
	if err != nil {
		s.Logger.Warn("run interrupted", "error", err)
		writeError(w, s.Logger, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	s.reply(w, report)
}

// Transform handles POST /v1/transform/{kind}.
func (s *Server) Transform(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	var body DocumentRequest
	if !s.decode(w, r, &body) {
		return
	}
	spec, err := s.Engine.Parse(r.Context(), []byte(body.Document), body.MultiTape)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.Engine.Transform(r.Context(), kind, spec)
	if err != nil {
		s.fail(w, err)
		return
	}
	doc, err := parser.Format(res.Spec)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.reply(w, TransformResponse{domain.TransformEntry{
		Kind:       res.Kind,
		Document:   string(doc),
		Source:     res.Source,
		Codes:      res.Codes,
		StateCodes: res.StateCodes,
		Width:      res.Width,
	}})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, s.Logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

// fail maps engine errors to status codes: spec errors and document syntax
// errors are 422, unknown transformations 404.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if se, ok := domain.AsSpecError(err); ok {
		writeError(w, s.Logger, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   se.Error(),
			Reason:  se.Reason,
			Details: &se.Details,
		})
		return
	}
	if errors.Is(err, domain.ErrUnknownTransform) {
		writeError(w, s.Logger, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if parser.IsSyntaxError(err) {
		writeError(w, s.Logger, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	s.Logger.Error("request failed", "error", err)
	writeError(w, s.Logger, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("error response encode failed", "error", err)
	}
}

func (s *Server) reply(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
