package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetTokenCookie_Attributes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CookieSecure = true
	exp := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)

	rec := httptest.NewRecorder()
	cfg.SetTokenCookie(rec, "plain-token", exp)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]

	if ck.Name != CookieName {
		t.Fatalf("name = %q, want %q", ck.Name, CookieName)
	}
	if ck.Value != "plain-token" {
		t.Fatalf("value = %q", ck.Value)
	}
	if !ck.HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
	if !ck.Secure {
		t.Fatalf("cookie must honor CookieSecure")
	}
	if ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("samesite = %v, want Lax", ck.SameSite)
	}
	if ck.Path != "/" {
		t.Fatalf("path = %q, want /", ck.Path)
	}
	if !ck.Expires.Equal(exp) {
		t.Fatalf("expires = %v, want %v", ck.Expires, exp)
	}
}

func TestDeleteTokenCookie_Clears(t *testing.T) {
	cfg := DefaultConfig()

	rec := httptest.NewRecorder()
	cfg.DeleteTokenCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Value != "" || ck.MaxAge != -1 {
		t.Fatalf("expected clearing cookie, got value=%q maxage=%d", ck.Value, ck.MaxAge)
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := TokenFromRequest(r); ok {
		t.Fatalf("expected no token without cookie")
	}

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "tok-123"})
	tok, ok := TokenFromRequest(r)
	if !ok || tok != "tok-123" {
		t.Fatalf("got %q ok=%v", tok, ok)
	}
}
