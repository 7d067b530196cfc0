package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"zoho-inquiry-relay/pkg/logger"
)

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging tags each request with an ID and logs method, path, status, and duration
func Logging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			ctx := logger.ContextWithRequestID(r.Context(), requestID)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if ua := r.Header.Get("User-Agent"); ua != "" {
				fields = append(fields, "user_agent", ua)
			}

			reqLog := log.WithRequestID(requestID)
			switch {
			case wrapped.statusCode >= 500:
				reqLog.Error("HTTP request completed", fields...)
			case wrapped.statusCode >= 400:
				reqLog.Warn("HTTP request completed", fields...)
			default:
				reqLog.Info("HTTP request completed", fields...)
			}
		})
	}
}
