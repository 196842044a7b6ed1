package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/adbpilot"
	"github.com/aretw0/adbpilot/internal/logging"
	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// RunsURI is the resource listing journaled runs.
const RunsURI = "adbpilot://runs"

// Server wraps the adbpilot Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("adbpilot-mcp", strings.TrimSpace(adbpilot.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
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

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: execute_plan
	planTool := mcp.NewTool("execute_plan",
		mcp.WithDescription("Run an automation plan on the device. Steps run strictly in order; "+
			"a failed step does not stop the plan. Returns one result per step."),
		mcp.WithArray("steps", mcp.Required(),
			mcp.Description("Ordered steps. Each step has an action ("+actionList()+"), "+
				"and optionally target, text, reasoning, browser and subject."),
			mcp.Items(map[string]any{
				"type":     "object",
				"required": []string{"action"},
				"properties": map[string]any{
					"action":    map[string]any{"type": "string"},
					"target":    map[string]any{"type": "string"},
					"text":      map[string]any{"type": "string"},
					"reasoning": map[string]any{"type": "string"},
					"browser":   map[string]any{"type": "string"},
					"subject":   map[string]any{"type": "string"},
				},
			}),
		),
		mcp.WithOutputSchema[domain.PlanReport](),
	)
	s.mcpServer.AddTool(planTool, mcp.NewStructuredToolHandler(s.handleExecutePlan))

	// TOOL: device_status
	s.mcpServer.AddTool(mcp.NewTool("device_status",
		mcp.WithDescription("Report bridge connectivity and the attached devices."),
		mcp.WithOutputSchema[domain.DeviceStatus](),
	), mcp.NewStructuredToolHandler(s.handleStatus))

	// TOOL: run_command
	s.mcpServer.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Run a raw adb command, e.g. 'shell getprop ro.product.model'. "+
			"The 'adb' prefix is implied."),
		mcp.WithString("command", mcp.Required(), mcp.Description("Command arguments after 'adb'")),
	), s.handleRunCommand)

	// TOOL: ui_dump
	s.mcpServer.AddTool(mcp.NewTool("ui_dump",
		mcp.WithDescription("Return the current UI hierarchy as uiautomator XML."),
	), s.handleUIDump)
}

func actionList() string {
	kinds := domain.ActionKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Handler methods for structured tools

func (s *Server) handleExecutePlan(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.PlanReport, error) {
	plan, err := decodePlan(args)
	if err != nil {
		s.logger.Warn("MCP execute_plan: invalid arguments", "error", err)
		return domain.PlanReport{}, err
	}
	return s.engine.ExecutePlan(ctx, plan), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.DeviceStatus, error) {
	return s.engine.Status(ctx), nil
}

func (s *Server) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, _ := request.GetArguments()["command"].(string)
	res, err := s.engine.Exec(ctx, command)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("command failed: %v", err)), nil
	}
	return mcp.NewToolResultText(res.Output), nil
}

func (s *Server) handleUIDump(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xml, err := s.engine.UIDump(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(xml), nil
}

// ErrNoSteps is returned when execute_plan is called without a steps array.
var ErrNoSteps = errors.New("steps array required")

// decodePlan accepts steps either as a JSON array or as a string holding one.
// Scalar fields are coerced to strings, so {"action":"wait","target":500} is accepted.
// Agent-supplied text is sanitized before it can reach the device shell. A step that
// fails sanitization is kept as a rejected step so the report still lines up with the input.
func decodePlan(args map[string]interface{}) (domain.Plan, error) {
	raw, ok := args["steps"]
	if !ok || raw == nil {
		return domain.Plan{}, ErrNoSteps
	}
	if str, isString := raw.(string); isString {
		var steps []interface{}
		if err := json.Unmarshal([]byte(str), &steps); err != nil {
			return domain.Plan{}, fmt.Errorf("invalid steps JSON: %w", err)
		}
		raw = steps
	}

	var plan domain.Plan
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &plan,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.Plan{}, err
	}
	if err := decoder.Decode(map[string]interface{}{"steps": raw}); err != nil {
		return domain.Plan{}, fmt.Errorf("invalid steps: %w", err)
	}
	if plan.Steps == nil {
		plan.Steps = []domain.Step{}
	}
	for i, step := range plan.Steps {
		clean, err := device.SanitizeStep(step)
		if err != nil {
			plan.Steps[i] = domain.Step{Action: step.Action, Rejected: err}
			continue
		}
		plan.Steps[i] = clean
	}
	return plan, nil
}

func (s *Server) registerResources() {
	// EXPOSE: adbpilot://runs
	s.mcpServer.AddResource(mcp.NewResource(RunsURI, "Journaled plan runs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		runs, err := s.engine.Runs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		jsonBytes, _ := json.Marshal(runs)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RunsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
