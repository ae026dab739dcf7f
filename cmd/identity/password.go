// Package identity password hashing (Argon2id).
//
// identity delegates to cmd/security/password as the single source of truth
// for Argon2id parameters (defaults + env overrides), password policy, and
// strict PHC decoding with anti-DoS bounds during Verify. identity MUST NOT
// silently drift from security/password configuration.
package identity

import (
	"errors"

	"tally/cmd/security/password"
)

// HashPassword returns a PHC-style Argon2id hash string for a plain password.
// Policy violations (too short, too long, weak) map to ErrInvalidInput so the
// HTTP layer can answer 400 without inspecting package internals.
func HashPassword(passwordPlain string) (string, error) {
	const op = "identity.HashPassword"

	cfg, err := password.FromEnv()
	if err != nil {
		// Invalid env is an operational error, not a weak fallback.
		return "", err
	}

	enc, err := cfg.Hash(passwordPlain)
	if err != nil {
		// Use errors.Is (not equality) to remain correct if security/password wraps errors.
		switch {
		case errors.Is(err, password.ErrPasswordTooShort):
			return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "password too short"}
		case errors.Is(err, password.ErrPasswordTooLong):
			return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "password too long"}
		case errors.Is(err, password.ErrWeakPassword):
			return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "weak password"}
		default:
			return "", err
		}
	}

	return enc, nil
}

// VerifyPassword checks a plain password against a PHC Argon2id hash.
// Strict PHC parsing; verification refuses hashes with parameters wildly
// above the configured maxima.
func VerifyPassword(passwordPlain string, encodedPHC string) (bool, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return false, err
	}

	ok, err := cfg.Verify(encodedPHC, passwordPlain)
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) {
			return false, errors.New("invalid argon2id hash format")
		}
		return false, err
	}
	return ok, nil
}
