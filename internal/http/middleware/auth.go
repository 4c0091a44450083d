package middleware

import (
	"context"
	"net/http"
	"strings"

	"poslito/internal/domain"
	"poslito/internal/logx"
)

// IdentityResolver turns a bearer token into an identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom returns the identity attached to the request context, or the
// zero (anonymous) identity.
func IdentityFrom(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey).(domain.Identity)
	return id
}

// WithIdentity attaches an identity to the context. Exported for handler tests.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Auth resolves the Authorization bearer token into an identity on the
// request context. Requests without a token pass through as anonymous; a
// token that fails to resolve is rejected.
func Auth(resolver IdentityResolver, logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				http.Error(w, `{"error":"malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.Warn("token resolution failed", logx.Err(err))
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()).Anonymous() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
