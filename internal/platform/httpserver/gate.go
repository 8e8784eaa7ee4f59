package httpserver

import (
	"context"
	"net/http"
	"strings"

	"taskhive/internal/shared/token"
)

type contextKey string

const (
	identityContextKey contextKey = "taskhive.identity"
	rawTokenContextKey contextKey = "taskhive.rawToken"
)

// GatePolicy is the two-tier path policy. Public prefixes always pass,
// protected prefixes require a valid token, and everything else defaults to
// permit. The default-permit fallthrough is deliberate.
type GatePolicy struct {
	PublicPrefixes    []string
	ProtectedPrefixes []string
}

// NewGate builds the per-request authorization boundary. A missing
// credential on a protected path, or a credential that fails verification
// anywhere, rejects the request before it reaches a handler. On success the
// resolved identity and the raw token (for verbatim forwarding to peers) are
// attached to the request context only.
func NewGate(authority *token.Authority, policy GatePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if matchesPrefix(r.URL.Path, policy.PublicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimSpace(r.Header.Get(token.HeaderName))
			if raw == "" {
				if matchesPrefix(r.URL.Path, policy.ProtectedPrefixes) {
					writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			identity, err := authority.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token", "token verification failed")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			ctx = context.WithValue(ctx, rawTokenContextKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IdentityFrom returns the verified caller identity, if the gate resolved
// one for this request.
func IdentityFrom(ctx context.Context) (token.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(token.Identity)
	return identity, ok
}

// RawTokenFrom returns the caller's original credential for verbatim
// forwarding on outbound peer calls.
func RawTokenFrom(ctx context.Context) string {
	raw, _ := ctx.Value(rawTokenContextKey).(string)
	return raw
}
