package auth

import (
	"context"
	"net/http"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

type contextKey struct{}

// Middleware authenticates every request and provisions the account lazily:
// the bearer token resolves to an identity and the identity to a user row,
// created on first sight together with the default collection. The user is
// placed on the request context for handlers to read via UserFrom.
func Middleware(authorizer Authorizer, users store.Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractBearer(r)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}
			ident, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}
			user, err := users.EnsureByExternalID(r.Context(), ident.ExternalID, ident.Email)
			if err != nil {
				http.Error(w, "failed to resolve account", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom returns the authenticated user, or nil outside the middleware.
func UserFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(contextKey{}).(*model.User)
	return u
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401,"message":"` + err.Error() + `"}`))
}
