package session

import (
	"os"
	"strconv"
	"time"
)

// CookieName is the session cookie issued to clients.
const CookieName = "session"

// Config defines all runtime configuration for the session subsystem.
//
// It controls session lifetime, the sliding-renewal window, token entropy,
// and cookie attributes. This struct is intentionally explicit and
// environment-driven so that production deployments can tune security
// parameters without code changes.
type Config struct {
	// Lifetime is the full session lifetime granted at creation and on renewal.
	Lifetime time.Duration

	// RenewalFraction controls sliding expiry: a session read with less than
	// Lifetime*RenewalFraction remaining has its expiry reset to now+Lifetime.
	// Must be in (0, 1).
	RenewalFraction float64

	// TokenBytes defines the number of random bytes used to generate opaque
	// session tokens.
	TokenBytes int

	// Cookie attributes. HttpOnly and SameSite=Lax are fixed; only the parts
	// that legitimately vary per deployment are configurable.
	CookieSecure bool
	CookieDomain string
	CookiePath   string
}

// DefaultConfig returns a secure default configuration suitable for development.
//
// Production environments should override values via environment variables
// (in particular CookieSecure).
func DefaultConfig() Config {
	return Config{
		Lifetime:        30 * 24 * time.Hour,
		RenewalFraction: 0.5,
		TokenBytes:      32,
		CookieSecure:    false,
		CookiePath:      "/",
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional (durations must be valid Go duration strings):
//   - TALLY_SESSION_LIFETIME
//   - TALLY_SESSION_RENEWAL_FRACTION
//   - TALLY_SESSION_TOKEN_BYTES
//   - TALLY_SESSION_COOKIE_SECURE
//   - TALLY_SESSION_COOKIE_DOMAIN
//   - TALLY_SESSION_COOKIE_PATH
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("TALLY_SESSION_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.Lifetime = d
	}

	if v := os.Getenv("TALLY_SESSION_RENEWAL_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 1 {
			return Config{}, ErrConfig
		}
		cfg.RenewalFraction = f
	}

	if v := os.Getenv("TALLY_SESSION_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < MinTokenBytes || n > 64 {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	if v := os.Getenv("TALLY_SESSION_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, ErrConfig
		}
		cfg.CookieSecure = b
	}

	if v := os.Getenv("TALLY_SESSION_COOKIE_DOMAIN"); v != "" {
		cfg.CookieDomain = v
	}

	if v := os.Getenv("TALLY_SESSION_COOKIE_PATH"); v != "" {
		cfg.CookiePath = v
	}

	return cfg, nil
}
