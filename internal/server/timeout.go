package server

import (
	"context"
	"net/http"
	"time"
)

// requestTimeout bounds every request. Speech synthesis is the long pole:
// the TTS model can stream for tens of seconds on a long question.
const requestTimeout = 120 * time.Second

// timeoutMiddleware attaches a deadline to each request context. Handlers
// observe it cooperatively; the Gemini calls abort when the context expires.
func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
