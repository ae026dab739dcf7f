package identity

import (
	"regexp"
	"strings"
)

// Usernames are stored in the form users type them but matched on the
// normalized form, so "Ada" and "ada" are the same account.
var usernameRe = regexp.MustCompile(`^[a-z0-9_-]{3,31}$`)

// NormalizeUsername performs case-insensitive canonicalization.
// Note: for now we only trim + lower-case. Additional rules (unicode confusables)
// can be added later behind a versioned policy.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername checks the normalized username shape:
// 3 to 31 characters from [a-z0-9_-].
func ValidateUsername(norm string) error {
	if !usernameRe.MatchString(norm) {
		return OpError{
			Op:   "identity.ValidateUsername",
			Kind: ErrInvalidInput,
			Msg:  "username must be 3-31 chars of lowercase letters, digits, '_' or '-'",
		}
	}
	return nil
}
