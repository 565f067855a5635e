// Package api implements the TBlog REST API using chi.
package api

import (
	"context"
	"net/http"

	"github.com/nordveil/tblog/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// AuthMiddleware returns middleware that attaches verified JWT claims to the
// request context. Invalid or missing tokens are not rejected here; public
// routes stay public and role checks happen in RequireRole. If enabled is
// false no claims are ever attached, so reads stay anonymous even in
// disabled mode.
func AuthMiddleware(enabled bool, signer *auth.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			if token, ok := auth.ExtractBearer(r.Header.Get("Authorization")); ok {
				if claims, err := signer.Verify(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that rejects requests whose context claims
// do not carry the given role. If enabled is false the gate is lifted
// (disabled mode, for local development).
func RequireRole(enabled bool, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			claims, ok := claimsFrom(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			if claims.Role != role {
				writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

func isAdmin(ctx context.Context) bool {
	claims, ok := claimsFrom(ctx)
	return ok && claims.Role == auth.RoleAdmin
}
