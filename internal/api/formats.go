package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickwarner/creativeserve/internal/catalog"
	"github.com/patrickwarner/creativeserve/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FormatsHandler handles GET /formats with filter criteria in query
// parameters (type, asset_types, dimensions, max_width, max_height,
// min_width, min_height, is_responsive, name_search, format_ids).
func (s *Server) FormatsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "FormatsHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/formats"),
		))
	defer span.End()

	start := time.Now()
	const endpoint = "formats"
	const method = "GET"

	crit := criteriaFromQuery(r)
	result := s.Agent.ListCreativeFormats(crit)

	span.SetAttributes(attribute.Int("formats.count", len(result.Formats)))

	s.writeJSON(w, http.StatusOK, result)
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

func criteriaFromQuery(r *http.Request) catalog.Criteria {
	q := r.URL.Query()
	crit := catalog.Criteria{
		Type:       q.Get("type"),
		Dimensions: q.Get("dimensions"),
		NameSearch: q.Get("name_search"),
	}

	for _, id := range splitParam(q.Get("format_ids")) {
		crit.FormatIDs = append(crit.FormatIDs, models.FormatID{ID: id})
	}
	for _, t := range splitParam(q.Get("asset_types")) {
		crit.AssetTypes = append(crit.AssetTypes, models.AssetType(t))
	}

	crit.MaxWidth = intParam(q.Get("max_width"))
	crit.MaxHeight = intParam(q.Get("max_height"))
	crit.MinWidth = intParam(q.Get("min_width"))
	crit.MinHeight = intParam(q.Get("min_height"))

	if v := q.Get("is_responsive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			crit.IsResponsive = &b
		}
	}
	return crit
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intParam(v string) *int {
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n
	}
	return nil
}
