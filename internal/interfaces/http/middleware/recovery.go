package middleware

import (
	"net/http"

	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
)

// Recovery converts handler panics into 500 responses instead of dropped
// connections, logging the panic value with the request ID for correlation.
func Recovery(logger logging.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("recovery")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked",
						logging.Any("panic", rec),
						logging.String("method", r.Method),
						logging.String("path", r.URL.Path),
						logging.String("request_id", ContextRequestID(r.Context())))
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
