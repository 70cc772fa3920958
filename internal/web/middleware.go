package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// WithRequestLogger puts a logger carrying a request id on the request context
// and logs each request once it has been served.
func WithRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := webLogger.With().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))

		l.Debug().Dur("elapsed", time.Since(start)).Msg("Request served")
	})
}
