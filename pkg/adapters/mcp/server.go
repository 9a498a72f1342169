package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/transform"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// UniversalTemplateURI names the resource holding the universal machine.
const UniversalTemplateURI = "turing://templates/universal"

// DocumentArgs are the arguments shared by every tool.
type DocumentArgs struct {
	Document  string `json:"document"`
	MultiTape bool   `json:"multi_tape,omitempty"`
}

// RunArgs adds a step limit to DocumentArgs.
type RunArgs struct {
	DocumentArgs
	MaxSteps int `json:"max_steps,omitempty"`
}

// TransformArgs selects the transformation applied to the document.
type TransformArgs struct {
	DocumentArgs
	Kind string `json:"kind"`
}

// ValidateResponse aligns with the HTTP adapter's response.
type ValidateResponse struct {
	Valid         bool     `json:"valid" jsonschema_description:"Whether the document describes a valid machine"`
	Error         string   `json:"error,omitempty" jsonschema_description:"Why the document is invalid"`
	Reason        string   `json:"reason,omitempty"`
	Line          int      `json:"line,omitempty" jsonschema_description:"Document line of the problem"`
	StartState    string   `json:"start_state,omitempty"`
	States        []string `json:"states,omitempty"`
	HaltingStates []string `json:"halting_states,omitempty"`
	Tapes         int      `json:"tapes,omitempty"`
}

// TransformResponse is the generated machine and its annotated listing.
type TransformResponse struct {
	Kind     string            `json:"kind"`
	Document string            `json:"document" jsonschema_description:"The generated machine as a YAML document"`
	Source   string            `json:"source" jsonschema_description:"Annotated listing of the generated machine"`
	Codes    map[string]string `json:"codes" jsonschema_description:"Encoding of every original symbol"`
	Width    int               `json:"width,omitempty"`
}

// Server wraps the turing Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards logs.
func NewServer(engine ports.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
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
	s.mcpServer.AddTool(mcp.NewTool("validate_spec",
		mcp.WithDescription("Check a Turing machine YAML document and report the first problem found."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The machine document (YAML)")),
		mcp.WithBoolean("multi_tape", mcp.Description("Allow the `tapes` key and the multi-tape instruction grammar")),
		mcp.WithOutputSchema[ValidateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("run_machine",
		mcp.WithDescription("Run a Turing machine until it halts or the step limit is reached, and return its final tapes."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The machine document (YAML)")),
		mcp.WithBoolean("multi_tape", mcp.Description("Allow the multi-tape grammar")),
		mcp.WithNumber("max_steps", mcp.Description("Step limit from 0 to 10000000 (default: server setting)")),
		mcp.WithOutputSchema[domain.RunReport](),
	), mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("transform_machine",
		mcp.WithDescription("Rewrite a single-tape machine as a universal machine program or over the binary alphabet."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The machine document (YAML)")),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(transform.Kinds()...), mcp.Description("Transformation to apply")),
		mcp.WithOutputSchema[TransformResponse](),
	), mcp.NewStructuredToolHandler(s.handleTransform))
}

// handleValidate reports spec errors in the response rather than as tool
// failures, so that agents can read the location.
func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args DocumentArgs) (ValidateResponse, error) {
	spec, err := s.engine.Parse(ctx, []byte(args.Document), args.MultiTape)
	if err != nil {
		var se *domain.SpecError
		if errors.As(err, &se) {
			return ValidateResponse{Error: se.Error(), Reason: se.Reason, Line: se.Details.Line}, nil
		}
		return ValidateResponse{Error: err.Error()}, nil
	}
	return ValidateResponse{
		Valid:         true,
		StartState:    spec.StartState,
		States:        spec.Table.States(),
		HaltingStates: spec.HaltingStates(),
		Tapes:         spec.TapeCount(),
	}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (domain.RunReport, error) {
	spec, err := s.engine.Parse(ctx, []byte(args.Document), args.MultiTape)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("invalid machine: %w", err)
	}
	if args.MaxSteps < 0 || args.MaxSteps > runner.MaxRequestSteps {
		return domain.RunReport{}, fmt.Errorf("max_steps must be between 0 and %d", runner.MaxRequestSteps)
	}
	rep, err := s.engine.Run(ctx, spec, args.MaxSteps)
	if err != nil {
		s.logger.Warn("MCP run interrupted", "error", err)
		return domain.RunReport{}, fmt.Errorf("run interrupted: %w", err)
	}
	return *rep, nil
}

func (s *Server) handleTransform(ctx context.Context, request mcp.CallToolRequest, args TransformArgs) (TransformResponse, error) {
	spec, err := s.engine.Parse(ctx, []byte(args.Document), args.MultiTape)
	if err != nil {
		return TransformResponse{}, fmt.Errorf("invalid machine: %w", err)
	}
	res, err := s.engine.Transform(ctx, args.Kind, spec)
	if err != nil {
		return TransformResponse{}, fmt.Errorf("transform failed: %w", err)
	}
	doc, err := parser.Format(res.Spec)
	if err != nil {
		return TransformResponse{}, fmt.Errorf("failed to format result: %w", err)
	}
	return TransformResponse{
		Kind:     res.Kind,
		Document: string(doc),
		Source:   res.Source,
		Codes:    res.Codes,
		Width:    res.Width,
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(UniversalTemplateURI, "Universal Turing machine",
		mcp.WithResourceDescription("The three-tape interpreter used by the universal transformation"),
		mcp.WithMIMEType("application/yaml"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      UniversalTemplateURI,
				MIMEType: "application/yaml",
				Text:     string(transform.UniversalTemplate()),
			},
		}, nil
	})
}
