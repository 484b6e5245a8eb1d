package middleware

import (
	"context"
	"net/http"

	"github.com/conduit/conduit-api/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

// Authenticator resolves the caller behind an Authorization header value
type Authenticator interface {
	Authenticate(ctx context.Context, header string, requiresIdentity bool) (*models.AuthUser, error)
}

// ErrorWriter renders a failed request
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Guard resolves the caller for every request passing through it and
// rejects the request when requiresIdentity is set and no caller resolves.
// The resolved identity, if any, is available through UserFromContext.
func Guard(auth Authenticator, requiresIdentity bool, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"), requiresIdentity)
			if err != nil {
				onError(w, r, err)
				return
			}
			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser attaches the caller identity to ctx
func WithUser(ctx context.Context, user *models.AuthUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the caller identity, or nil for anonymous requests
func UserFromContext(ctx context.Context) *models.AuthUser {
	user, _ := ctx.Value(userKey).(*models.AuthUser)
	return user
}
