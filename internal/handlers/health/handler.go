// internal/handlers/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"edgar-content-service/internal/common/logger"
)

// ServiceName is the identifier the health endpoint reports.
const ServiceName = "edgartools-content"

// Handler serves GET /health.
type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"handler": "health"}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

// Check probes one dependency for the readiness endpoint. Critical
// checks gate readiness; the rest are reported but do not fail it.
type Check struct {
	Name     string
	Critical bool
	Probe    func(ctx context.Context) error
}

// Readiness serves GET /ready by probing the configured dependencies.
type Readiness struct {
	checks  []Check
	timeout time.Duration
	logger  logger.Logger
}

func NewReadiness(log logger.Logger, timeout time.Duration, checks ...Check) *Readiness {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Readiness{
		checks:  checks,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"handler": "ready"}),
	}
}

func (h *Readiness) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	results := make(map[string]string, len(h.checks))

	for _, check := range h.checks {
		err := check.Probe(ctx)
		if err == nil {
			results[check.Name] = "ok"
			continue
		}

		results[check.Name] = err.Error()
		h.logger.Warn("readiness probe failed", map[string]interface{}{
			"check":    check.Name,
			"critical": check.Critical,
			"error":    err.Error(),
		})

		if check.Critical {
			status = "unavailable"
			httpStatus = http.StatusServiceUnavailable
		} else if status == "ready" {
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": results,
	})
}
