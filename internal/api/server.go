// Package api exposes the agent's operations over HTTP: stored preview
// documents, the format catalog, and JSON endpoints mirroring the MCP tools.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/creativeserve/internal/agent"
	"github.com/patrickwarner/creativeserve/internal/observability"
	"github.com/patrickwarner/creativeserve/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("creativeserve")

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger  *zap.Logger
	Agent   *agent.Service
	Store   storage.PreviewStore
	Metrics observability.MetricsRegistry
}

// NewServer builds a Server from its dependencies.
func NewServer(logger *zap.Logger, svc *agent.Service, store storage.PreviewStore, metrics observability.MetricsRegistry) *Server {
	return &Server{
		Logger:  logger,
		Agent:   svc,
		Store:   store,
		Metrics: metrics,
	}
}

// Routes registers all handlers on the given router.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/formats", s.FormatsHandler).Methods("GET")
	r.HandleFunc("/preview", s.PreviewCreativeHandler).Methods("POST")
	r.HandleFunc("/build", s.BuildCreativeHandler).Methods("POST")
	r.HandleFunc("/preview/{id}/interactive", s.InteractivePreviewHandler).Methods("GET")
	r.HandleFunc("/preview/{id}/{variant}", s.PreviewHandler).Methods("GET")
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
}

// writeJSON writes the payload with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.Logger.Error("encode response", zap.Error(err))
	}
}

// writeError writes a JSON error body, optionally with validation detail.
func (s *Server) writeError(w http.ResponseWriter, status int, message string, problems []string) {
	body := map[string]any{"error": message}
	if len(problems) > 0 {
		body["validation_errors"] = problems
	}
	s.writeJSON(w, status, body)
}
