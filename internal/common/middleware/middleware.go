// internal/common/middleware/middleware.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/common/metrics"
	"edgar-content-service/internal/common/observability"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request ID stamped by RequestID, or "" when
// the middleware is not installed.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// RequestID assigns each request a UUID, honoring an X-Request-ID header
// set by an upstream proxy.
func RequestID() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs one line per request with method, path, status and duration.
func Logging(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			log.Info("HTTP request", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"remote_addr": r.RemoteAddr,
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  GetRequestID(r.Context()),
			})
		})
	}
}

// CORS allows any origin. The service sits behind internal gateways and
// the endpoints expose only public SEC data.
func CORS() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request counts, durations and in-flight gauges per
// route template.
func Metrics() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerName := routeName(r)
			metrics.HandlerRequestsActive.WithLabelValues(handlerName).Inc()
			defer metrics.HandlerRequestsActive.WithLabelValues(handlerName).Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := http.StatusText(rec.status)
			if status == "" {
				status = "Unknown"
			}
			metrics.HandlerRequestsTotal.WithLabelValues(handlerName, status).Inc()
			metrics.HandlerRequestDuration.WithLabelValues(handlerName).Observe(time.Since(start).Seconds())
		})
	}
}

// Tracing opens a span per request when tracing is configured. A nil
// tracer disables the middleware.
func Tracing(tracing *observability.Tracing) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tracing == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx, span := tracing.StartSpan(r.Context(), routeName(r))
			defer span.End()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recovery converts panics into a structured 500 response instead of
// dropping the connection.
func Recovery(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", map[string]interface{}{
						"panic":      rec,
						"path":       r.URL.Path,
						"request_id": GetRequestID(r.Context()),
					})
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(errors.NewInternalError(fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// routeName returns the mux route template for metric and span labels so
// parameterized paths collapse into one series.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
