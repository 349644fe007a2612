package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery turns a panic in a relay handler into a 500. The trace id is
// echoed in the message so an originator can quote it when reporting a
// failed enqueue or callback.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				traceID := RequestIDFrom(r.Context())
				logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", traceID,
					"remote_addr", r.RemoteAddr,
					"stack", string(debug.Stack()),
				)

				message := "internal server error"
				if traceID != "" {
					message = fmt.Sprintf("internal server error (request id %s)", traceID)
				}
				writeError(w, http.StatusInternalServerError, CodeInternal, message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
