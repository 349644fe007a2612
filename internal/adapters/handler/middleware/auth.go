package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

type callerKey struct{}

// CallerFrom returns the verified identity of the direct caller, or "" for
// anonymous calls.
func CallerFrom(ctx context.Context) domain.AccountID {
	caller, _ := ctx.Value(callerKey{}).(domain.AccountID)
	return caller
}

// WithCaller attaches a verified caller identity to ctx.
func WithCaller(ctx context.Context, caller domain.AccountID) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// TokenVerifier checks a bearer token and returns the identity it was issued to.
type TokenVerifier interface {
	Verify(token string) (domain.AccountID, error)
}

// Authenticate resolves the bearer token into the caller identity. Calls
// without a token go through anonymously; whether an operation accepts an
// anonymous caller is decided by the service. A token that does not verify
// is rejected here.
func Authenticate(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("rejected identity token",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
				writeError(w, http.StatusUnauthorized, CodeUnauthenticated, "invalid identity token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}
