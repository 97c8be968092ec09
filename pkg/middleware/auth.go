package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/configuration"
)

// Authenticator resolves a session token to the principal and, when that
// principal owns an account, the tenant. accountID is uuid.Nil for
// principals without an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (principalID uuid.UUID, accountID uuid.UUID, err error)
}

// Authorize reads the session cookie and, when valid, attaches the principal
// and tenant ids to the context. Requests without a valid session pass
// through unauthenticated; guards downstream deny them.
func Authorize(auth Authenticator) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(conf.SidCookieKey)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			principalID, accountID, err := auth.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := composables.WithPrincipalID(r.Context(), principalID)
			if accountID != uuid.Nil {
				ctx = composables.WithTenantID(ctx, accountID)
			}
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
