package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLog attaches a child of base carrying the request ID to the request
// context (retrieve it with zerolog.Ctx) and logs method, path, status,
// duration and size once the handler returns. Use after chi's RequestID.
func RequestLog(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.With().Str("request_id", chimw.GetReqID(r.Context())).Logger()
			r = r.WithContext(log.WithContext(r.Context()))

			wrap := newStatusRecorder(w)
			next.ServeHTTP(wrap, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrap.status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int("size", wrap.size).
				Msg("request")
		})
	}
}
