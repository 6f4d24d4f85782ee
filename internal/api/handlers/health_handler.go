package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hal-directory/backend/internal/infrastructure/observability"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the API root and the health check
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a health handler. deps are checked by Ready.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Root handles GET /api/
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "HAL API v1.0"})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Ready handles GET /ready and pings every dependency
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, status)
}
