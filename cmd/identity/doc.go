// Package identity implements tally's account foundation.
//
// It owns the user record (username + Argon2id password hash), username
// normalization and validation, and the account persistence boundary used by
// the HTTP layer. Session state lives in cmd/internal/auth/session; this
// package is intentionally dependency-light and security-first.
package identity
