package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	jwtinfra "github.com/go-rider-auth/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

type tokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the Bearer JWT and injects claims into context.
// Session tokens always pass. Scoped tokens pass only when their scope is listed.
func Auth(verifier tokenVerifier, scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			if claims.Scope != "" && !slices.Contains(scopes, claims.Scope) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "token not valid for this route")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}
