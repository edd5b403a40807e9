package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger returns a middleware that logs every HTTP request with its status
// and duration. Server errors are logged at error level.
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// Strip CR/LF from user-supplied values before logging
			sanitize := strings.NewReplacer("\n", "", "\r", "").Replace

			keyvals := []any{
				"method", sanitize(r.Method),
				"path", sanitize(r.URL.Path),
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			}
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				keyvals = append(keyvals, "request_id", id)
			}

			if wrapped.statusCode >= http.StatusInternalServerError {
				logger.Error("request", keyvals...)
				return
			}
			logger.Info("request", keyvals...)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
