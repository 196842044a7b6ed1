package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/adbpilot/internal/logging"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed openapi.yaml
var rawSpec []byte

// ServiceName is reported by the banner endpoint.
const ServiceName = "adbpilot"

// Server serves the device automation API on top of an Engine.
type Server struct {
	Engine  ports.Engine
	version string
	logger  *slog.Logger
	metrics http.Handler
	// validate enables request validation against the embedded OpenAPI document.
	validate bool
}

// Option configures the HTTP handler.
type Option func(*Server)

// WithVersion sets the version reported by the banner endpoint.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidation toggles OpenAPI request validation. Enabled by default.
func WithValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// NewHandler creates a new HTTP handler for the engine.
// It fails only if the embedded OpenAPI document is invalid.
func NewHandler(engine ports.Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:   engine,
		version:  "dev",
		logger:   logging.NewNop(),
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors)

	if s.validate {
		validator, err := newValidator(rawSpec, s.writeError)
		if err != nil {
			return nil, err
		}
		r.Use(validator.middleware)
	}

	r.Get("/", s.info)
	r.Get("/health", s.health)
	r.Get("/status", s.status)
	r.Get("/screen-size", s.screenSize)
	r.Get("/contacts", s.contacts)
	r.Post("/contacts/search", s.searchContacts)
	r.Post("/open-app", s.openApp)
	r.Post("/open-url", s.openURL)
	r.Post("/whatsapp", s.sendMessage)
	r.Post("/call", s.call)
	r.Post("/email", s.email)
	r.Post("/tap", s.tap)
	r.Post("/type", s.typeText)
	r.Post("/swipe", s.swipe)
	r.Post("/key", s.key)
	r.Get("/ui-dump", s.uiDump)
	r.Get("/screenshot", s.screenshot)
	r.Post("/execute-plan", s.executePlan)
	r.Post("/adb", s.raw)
	r.Get("/runs", s.listRuns)
	r.Get("/runs/{id}", s.getRun)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>adbpilot API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// -- Service --

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"service": ServiceName,
		"version": s.version,
		"status":  "running",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Status(r.Context()))
}

func (s *Server) screenSize(w http.ResponseWriter, r *http.Request) {
	size, err := s.Engine.ScreenSize(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, size)
}

// -- Contacts --

type contactsResponse struct {
	Success  bool             `json:"success"`
	Contacts []domain.Contact `json:"contacts"`
	Error    string           `json:"error,omitempty"`
}

func (s *Server) contacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.Engine.Contacts(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusOK, contactsResponse{Contacts: []domain.Contact{}, Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, contactsResponse{Success: true, Contacts: contacts})
}

type searchResponse struct {
	Success bool `json:"success"`
	domain.ContactSearch
	Error string `json:"error,omitempty"`
}

func (s *Server) searchContacts(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	found, err := s.Engine.SearchContact(r.Context(), body.Query)
	if err != nil {
		s.writeJSON(w, http.StatusOK, searchResponse{ContactSearch: found, Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Success: true, ContactSearch: found})
}

// -- Single actions --

// do runs step through the engine and writes its result.
func (s *Server) do(w http.ResponseWriter, r *http.Request, step domain.Step) {
	s.writeJSON(w, http.StatusOK, s.Engine.Do(r.Context(), step))
}

func (s *Server) openApp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PackageName string `json:"packageName"`
	}
	if s.decode(w, r, &body) {
		s.do(w, r, domain.Step{Action: domain.ActionOpenApp, Target: body.PackageName})
	}
}

func (s *Server) openURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL     string `json:"url"`
		Browser string `json:"browser"`
	}
	if s.decode(w, r, &body) {
		s.do(w, r, domain.Step{Action: domain.ActionOpenURL, Target: body.URL, Browser: body.Browser})
	}
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Contact string `json:"contact"`
		Message string `json:"message"`
	}
	if s.decode(w, r, &body) {
		s.do(w, r, domain.Step{Action: domain.ActionMessagingSend, Target: body.Contact, Text: body.Message})
	}
}

func (s *Server) call(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Contact string `json:"contact"`
	}
	if s.decode(w, r, &body) {
		s.do(w, r, domain.Step{Action: domain.ActionCall, Target: body.Contact})
	}
}

func (s *Server) email(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if s.decode(w, r, &body) {
		s.do(w, r, domain.Step{Action: domain.ActionEmail, Target: body.To, Subject: body.Subject, Text: body.Body})
	}
}

func (s *Server) tap(w http.ResponseWriter, r *http.Request) {
	var body struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.X == nil || body.Y == nil {
		s.writeError(w, http.StatusBadRequest, "Coordinates required")
		return
	}
	s.do(w, r, domain.Step{Action: domain.ActionTap, Target: strconv.Itoa(*body.X) + "," + strconv.Itoa(*body.Y)})
}

func (s *Server) typeText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if s.decode(w, r, &body) {
		s.do(w, r, domain.Step{Action: domain.ActionType, Text: body.Text})
	}
}

func (s *Server) key(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Keycode any `json:"keycode"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	var code string
	switch v := body.Keycode.(type) {
	case float64:
		code = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		code = v
	}
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "Keycode required")
		return
	}
	s.do(w, r, domain.Step{Action: domain.ActionKey, Target: code})
}

func (s *Server) swipe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		X1       *int `json:"x1"`
		Y1       *int `json:"y1"`
		X2       *int `json:"x2"`
		Y2       *int `json:"y2"`
		Duration int  `json:"duration"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.X1 == nil || body.Y1 == nil || body.X2 == nil || body.Y2 == nil {
		s.writeError(w, http.StatusBadRequest, "Coordinates required")
		return
	}
	res, _ := s.Engine.Swipe(r.Context(),
		domain.Point{X: *body.X1, Y: *body.Y1},
		domain.Point{X: *body.X2, Y: *body.Y2},
		time.Duration(body.Duration)*time.Millisecond,
	)
	s.writeJSON(w, http.StatusOK, res)
}

// -- Inspection --

type uiDumpResponse struct {
	Success bool   `json:"success"`
	XML     string `json:"xml,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) uiDump(w http.ResponseWriter, r *http.Request) {
	xml, err := s.Engine.UIDump(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusOK, uiDumpResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, uiDumpResponse{Success: true, XML: xml})
}

func (s *Server) screenshot(w http.ResponseWriter, r *http.Request) {
	png, err := s.Engine.Screenshot(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// -- Plans --

func (s *Server) executePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.Plan
	if !s.decode(w, r, &plan) {
		return
	}
	if plan.Steps == nil {
		s.writeError(w, http.StatusBadRequest, "Steps array required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.ExecutePlan(r.Context(), plan))
}

func (s *Server) raw(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command string `json:"command"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Command) == "" {
		s.writeError(w, http.StatusBadRequest, "Missing 'command' field")
		return
	}
	res, err := s.Engine.Exec(r.Context(), body.Command)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Engine.Runs(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"runs": runs})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	record, err := s.Engine.Run(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeJSON(w, http.StatusOK, record)
	}
}

// -- Helpers --

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
		)
	})
}

// cors allows any origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
