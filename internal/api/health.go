package api

import (
	"net/http"
	"time"
)

// HealthHandler is the liveness probe. It deliberately skips dependency
// checks so a slow Redis never takes the process out of rotation.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))

	s.Metrics.IncrementRequests("health", r.Method, "200")
	s.Metrics.RecordRequestLatency("health", r.Method, time.Since(start))
}
