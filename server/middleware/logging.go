package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/tabkit/logger"
	"github.com/kbukum/tabkit/observability"
)

var healthPaths = []string{"/health", "/version"}

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration, and records it on metrics when metrics
// is not nil. Health and version probes are counted but not logged.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			metrics.RecordRequest(r.Context(), r.Method, r.URL.Path, sw.status, duration)
			if isHealthEndpoint(r.URL.Path) {
				return
			}

			fields := map[string]interface{}{
				"method":             r.Method,
				logger.FieldPath:     r.URL.Path,
				logger.FieldStatus:   sw.status,
				logger.FieldDuration: duration.Milliseconds(),
				"bytes":              sw.written,
			}
			logByStatus(log.WithContext(r.Context()), fields, sw.status)
		})
	}
}

func isHealthEndpoint(path string) bool {
	return slices.Contains(healthPaths, path)
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
