package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickwarner/creativeserve/internal/agent"
	"github.com/patrickwarner/creativeserve/internal/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BuildCreativeHandler handles POST /build with a JSON body mirroring the
// build_creative tool.
func (s *Server) BuildCreativeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "BuildCreativeHandler",
		trace.WithAttributes(
			attribute.String("http.method", "POST"),
			attribute.String("http.route", "/build"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)
	start := time.Now()
	const endpoint = "build"
	const method = "POST"

	var req agent.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		s.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	span.SetAttributes(attribute.String("build.target_format", req.TargetFormatID.ID))

	result, err := s.Agent.BuildCreative(ctx, req)
	if err != nil {
		status := statusForError(err)
		var gerr *agent.GenerationError
		if errors.As(err, &gerr) {
			s.writeError(w, status, err.Error(), gerr.Problems)
		} else {
			logger.Warn("build failed", zap.Error(err))
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
