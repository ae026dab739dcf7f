package session

import (
	"net/http"
	"time"
)

// SetTokenCookie writes the session cookie carrying the plain token.
// HttpOnly and SameSite=Lax are fixed; Secure, Domain and Path come from
// config. Expires mirrors the session expiry so browser and server agree.
func (c Config) SetTokenCookie(w http.ResponseWriter, tokenPlain string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenPlain,
		Path:     c.cookiePath(),
		Domain:   c.CookieDomain,
		Expires:  expiresAt,
		Secure:   c.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// DeleteTokenCookie instructs the client to drop the session cookie.
func (c Config) DeleteTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     c.cookiePath(),
		Domain:   c.CookieDomain,
		MaxAge:   -1,
		Secure:   c.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest extracts the plain session token from the request cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c Config) cookiePath() string {
	if c.CookiePath == "" {
		return "/"
	}
	return c.CookiePath
}
