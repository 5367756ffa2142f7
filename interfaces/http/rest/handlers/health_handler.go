package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"photoshare/pkg/common"

	"go.uber.org/zap"
)

// ReadinessCheck probes one dependency. Only critical failures make the
// service unready.
type ReadinessCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandler serves liveness, readiness and ping
type HealthHandler struct {
	checks []ReadinessCheck
	logger *zap.Logger
}

// NewHealthHandler creates a health handler with the given readiness checks
func NewHealthHandler(checks []ReadinessCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("check", c.Name), zap.Error(err))
			results[c.Name] = err.Error()
			if c.Critical {
				status = http.StatusServiceUnavailable
			}
			continue
		}
		results[c.Name] = "ok"
	}

	body := map[string]interface{}{"status": "ready", "checks": results}
	if status != http.StatusOK {
		body["status"] = "not ready"
	}
	common.RespondJSON(w, status, body)
}

// Ping handles GET and POST /ping with a greeting for ?name, the request
// body, or the world
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" && r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1024))
		if err == nil {
			name = strings.TrimSpace(string(body))
		}
	}
	if name == "" {
		name = "world"
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Hello, "+name+"!")
}
