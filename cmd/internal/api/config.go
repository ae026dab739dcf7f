package api

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds API handler settings.
type Config struct {
	// MaxBodyBytes caps request body size for JSON endpoints.
	MaxBodyBytes int64
}

// DefaultConfig returns the built-in API defaults.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 64 << 10, // 64 KiB
	}
}

// LoadConfigFromEnv loads API settings from TALLY_API_* variables.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("TALLY_API_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid TALLY_API_MAX_BODY_BYTES %q", v)
		}
		cfg.MaxBodyBytes = n
	}

	return cfg, nil
}
