package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Timeout bounds one call. A call still running at the deadline is answered
// with 503 TIMEOUT and whatever it writes afterwards is dropped. Registry
// writes run in a transaction, so a timed out enqueue or remove either
// committed before the deadline or left nothing behind.
func Timeout(timeout time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	body := `{"success":false,"error":{"code":"` + CodeTimeout +
		`","message":"request did not finish within ` + timeout.String() + `"}}`

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, body)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			bounded.ServeHTTP(rec, r)

			if rec.status == http.StatusServiceUnavailable && time.Since(start) >= timeout {
				logger.Warn("call timed out",
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout,
					"request_id", RequestIDFrom(r.Context()),
				)
			}
		})
	}
}
