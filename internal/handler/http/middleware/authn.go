package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/handler/http/httperr"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

// Authenticator is the subset of auth.Service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (user.Principal, error)
}

type principalKey struct{}

// PrincipalFromContext returns the Principal attached by Authn, or false if
// the request never went through it.
func PrincipalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}

// Authn extracts and verifies the bearer token, attaching the resulting
// Principal to the request context. Requests without a well-formed token
// never reach a handler.
func Authn(svc Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httperr.Write(w, domainerr.Forbidden("missing bearer token"))
				return
			}
			principal, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				httperr.Write(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}
