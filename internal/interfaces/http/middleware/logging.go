package middleware

import (
	"net/http"
	"time"

	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/prometheus"
)

// responseWriter captures the status code and bytes written so the logging
// middleware can report them after the handler returns.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// RequestLogging logs one line per request and records HTTP metrics when a
// collector is supplied. 5xx responses log at error level, 4xx at warn.
// The /healthz, /readyz, and /metrics paths are skipped to keep probe noise
// out of the logs.
func RequestLogging(logger logging.Logger, metrics *prometheus.Metrics) func(http.Handler) http.Handler {
	skip := map[string]bool{"/healthz": true, "/readyz": true, "/metrics": true}
	logger = logger.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := wrapResponseWriter(w)
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			if metrics != nil {
				metrics.ObserveHTTPRequest(r.Method, r.URL.Path, ww.status, elapsed)
			}

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.status),
				logging.Duration("elapsed", elapsed),
				logging.Int("bytes", int(ww.bytes)),
				logging.String("request_id", ContextRequestID(r.Context())),
			}
			switch {
			case ww.status >= 500:
				logger.Error("request failed", fields...)
			case ww.status >= 400:
				logger.Warn("request rejected", fields...)
			default:
				logger.Info("request served", fields...)
			}
		})
	}
}
