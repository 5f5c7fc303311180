package middleware

import (
	"context"
	"net/http"
	"strings"

	"auth-gateway/internal/token"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated principal from
// context.
func PrincipalFromContext(ctx context.Context) (token.Principal, bool) {
	p, ok := ctx.Value(principalKey).(token.Principal)
	return p, ok
}

// TokenVerifier resolves a principal from a bearer token string.
type TokenVerifier interface {
	Verify(tokenString string) (token.Principal, error)
}

// AuthMiddleware is the authentication gate: a stateless boundary
// filter with no I/O beyond token verification and no shared mutable
// state across requests.
type AuthMiddleware struct {
	Verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{Verifier: verifier}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read bearer token
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		// 2. Verify signature and decode claims. A verified token is
		// trusted at face value; no live user lookup happens here.
		principal, err := a.Verifier.Verify(tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		// 3. Attach principal to context
		ctx := context.WithValue(r.Context(), principalKey, principal)

		// 4. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
