package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avct/uasurfer"
	"github.com/gorilla/mux"
	"github.com/patrickwarner/creativeserve/internal/agent"
	"github.com/patrickwarner/creativeserve/internal/middleware"
	"github.com/patrickwarner/creativeserve/internal/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PreviewHandler handles GET /preview/{id}/{variant}, serving the stored
// preview document for iframe embedding.
func (s *Server) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "PreviewHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/preview/{id}/{variant}"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)
	start := time.Now()
	const endpoint = "preview_get"
	const method = "GET"

	vars := mux.Vars(r)
	previewID, variant := vars["id"], vars["variant"]

	html, err := s.Store.Get(ctx, previewID, variant)
	if errors.Is(err, storage.ErrNotFound) {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "preview not found or expired", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("load preview", zap.Error(err), zap.String("preview_id", previewID))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(html))

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

// InteractivePreviewHandler handles GET /preview/{id}/interactive. The
// variant is chosen from the visitor's User-Agent, falling back to the
// first stored variant when no device match exists.
func (s *Server) InteractivePreviewHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "InteractivePreviewHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/preview/{id}/interactive"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)
	start := time.Now()
	const endpoint = "preview_interactive"
	const method = "GET"

	previewID := mux.Vars(r)["id"]

	variants, err := s.Store.Variants(ctx, previewID)
	if err != nil {
		logger.Error("list preview variants", zap.Error(err), zap.String("preview_id", previewID))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(variants) == 0 {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "preview not found or expired", http.StatusNotFound)
		return
	}

	variant := pickVariant(variants, r.UserAgent())
	span.SetAttributes(attribute.String("preview.variant", variant))

	html, err := s.Store.Get(ctx, previewID, variant)
	if err != nil {
		logger.Error("load preview", zap.Error(err),
			zap.String("preview_id", previewID),
			zap.String("variant", variant))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

// pickVariant matches the visitor's device class against the stored
// variant names.
func pickVariant(variants []string, userAgent string) string {
	ua := uasurfer.Parse(userAgent)

	var want string
	switch ua.DeviceType {
	case uasurfer.DevicePhone:
		want = "mobile"
	case uasurfer.DeviceTablet:
		want = "tablet"
	default:
		want = "desktop"
	}

	for _, v := range variants {
		if v == want {
			return v
		}
	}
	return variants[0]
}

// previewHTTPRequest accepts both single and batch preview payloads, the
// same shape the MCP tool takes.
type previewHTTPRequest struct {
	agent.PreviewRequest
	Requests []agent.PreviewRequest `json:"requests,omitempty"`
}

// PreviewCreativeHandler handles POST /preview with a JSON body mirroring
// the preview_creative tool.
func (s *Server) PreviewCreativeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "PreviewCreativeHandler",
		trace.WithAttributes(
			attribute.String("http.method", "POST"),
			attribute.String("http.route", "/preview"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)
	start := time.Now()
	const endpoint = "preview"
	const method = "POST"

	var req previewHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if req.Requests != nil {
		result, err := s.Agent.PreviewCreativeBatch(ctx, req.Requests, req.OutputFormat)
		if err != nil {
			s.Metrics.IncrementRequests(endpoint, method, "400")
			s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
			s.writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
		s.Metrics.IncrementRequests(endpoint, method, "200")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	result, err := s.Agent.PreviewCreative(ctx, req.PreviewRequest)
	if err != nil {
		status := statusForError(err)
		var verr *agent.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, status, "Asset validation failed", verr.Problems)
		} else {
			logger.Warn("preview failed", zap.Error(err))
			s.writeError(w, status, err.Error(), nil)
		}
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		return
	}

	s.writeJSON(w, http.StatusOK, result)
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

func statusForError(err error) int {
	var nf *agent.NotFoundError
	var verr *agent.ValidationError
	var gerr *agent.GenerationError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &gerr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
