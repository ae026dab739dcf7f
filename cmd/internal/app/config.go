package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, TALLY_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and session-token
	// hashing must be HMAC-based.
	RequireTokenHMAC bool

	// SessionSweepInterval enables the background sweeper that reclaims
	// expired session rows. Zero disables it; lazy expiry still applies.
	SessionSweepInterval time.Duration

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("TALLY_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("TALLY_LOG_LEVEL", "info"),
		LogFormat: EnvString("TALLY_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("TALLY_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("TALLY_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("TALLY_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("TALLY_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("TALLY_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("TALLY_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("TALLY_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("TALLY_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("TALLY_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("TALLY_REQUIRE_TOKEN_HMAC", false),

		SessionSweepInterval: EnvDuration("TALLY_SESSION_SWEEP_INTERVAL", 0),

		CORSAllowedOrigins:   EnvStringSlice("TALLY_CORS_ALLOWED_ORIGINS"),
		CORSAllowCredentials: EnvBool("TALLY_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("TALLY_CORS_MAX_AGE_SECONDS", 600),
	}
}
