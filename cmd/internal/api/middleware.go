package api

import (
	"context"
	"net/http"
	"time"

	"tally/cmd/internal/auth/session"
)

type contextKey string

const principalKey contextKey = "tally.principal"

// Principal is the authenticated caller attached to a request by WithSession.
type Principal struct {
	Session session.Session
	User    session.User
}

// PrincipalFromContext returns the request principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// WithSession resolves the session cookie once per request. A valid session
// puts the principal on the context and refreshes the cookie, so a sliding
// renewal reaches the browser. A stale cookie is cleared. Requests without a
// valid session continue unauthenticated; requireUser draws the line per
// endpoint.
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenPlain, ok := session.TokenFromRequest(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		now := time.Now().UTC()
		sess, user, err := h.deps.Sessions.Validate(r.Context(), now, tokenPlain)
		if err != nil {
			h.log.Error("api.session.validate.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
		if sess == nil {
			h.deps.Sessions.Config().DeleteTokenCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		h.deps.Sessions.Config().SetTokenCookie(w, tokenPlain, sess.ExpiresAt)

		ctx := context.WithValue(r.Context(), principalKey, Principal{
			Session: *sess,
			User:    *user,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
		return Principal{}, false
	}
	return p, true
}
