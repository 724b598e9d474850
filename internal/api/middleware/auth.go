package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/model"
)

type identityKey struct{}

// Auth guards /api/v1 with bearer tokens verified by the backend. The
// verified identity is put in the request context and on the request logger.
// With required unset, or a backend that cannot verify tokens, requests pass
// through anonymously.
func Auth(authService *core.AuthService, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r)
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="backupdash"`)
				response.WriteError(w, http.StatusUnauthorized, msg)
				return
			}

			identity, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				if response.StatusFor(err) == http.StatusUnauthorized {
					w.Header().Set("WWW-Authenticate", `Bearer realm="backupdash", error="invalid_token"`)
				}
				response.WriteServiceError(w, r, err)
				return
			}

			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", identity.UserID)
			})
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// bearerToken returns the token from the Authorization header, or a message
// saying why there is none. The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (token, msg string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "invalid authorization format"
	}
	return token, ""
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity returns the identity Auth stored, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey{}).(*model.Identity)
	return identity
}
