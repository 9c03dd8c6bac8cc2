package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("deadline reaches the handler context", func(t *testing.T) {
		var hasDeadline bool
		h := timeoutMiddleware(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if !hasDeadline {
			t.Error("request context should carry a deadline")
		}
	})

	t.Run("slow handler observes expiry", func(t *testing.T) {
		h := timeoutMiddleware(5*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
				w.WriteHeader(http.StatusServiceUnavailable)
			case <-time.After(time.Second):
				w.WriteHeader(http.StatusOK)
			}
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/interview/speak", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want the handler to see cancellation", rec.Code)
		}
	})
}
