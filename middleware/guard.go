package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/MrEthical07/mediaguard"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity stored by [RequireRole].
func IdentityFromContext(ctx context.Context) (mediaguard.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(mediaguard.Identity)
	return id, ok
}

// RequireRole rejects requests without a valid access token for role. An
// empty role admits any authenticated caller.
func RequireRole(engine *mediaguard.Engine, role mediaguard.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := withRequestIP(r)
			id, err := engine.ValidateAccess(ctx, token, role)
			if err != nil {
				status := statusFor(err)
				http.Error(w, http.StatusText(status), status)
				return
			}

			ctx = context.WithValue(ctx, identityContextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, mediaguard.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, mediaguard.ErrDenylistUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func withRequestIP(r *http.Request) context.Context {
	return mediaguard.WithClientIP(r.Context(), remoteIP(r.RemoteAddr))
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
