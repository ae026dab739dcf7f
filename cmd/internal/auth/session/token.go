package session

import (
	"crypto/rand"
	"encoding/base64"

	"tally/cmd/security/token"
)

// MinTokenBytes is the smallest allowed token entropy. 20 bytes (160 bits)
// keeps brute-forcing the keyspace infeasible; the default is 32.
const MinTokenBytes = 20

// NewToken returns a fresh opaque session token: nBytes of crypto-random
// data, base64url-encoded without padding. The plain token travels only in
// the cookie and is never persisted.
func NewToken(nBytes int) (string, error) {
	if nBytes < MinTokenBytes {
		return "", ErrConfig
	}

	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DeriveID maps a plain token to its storage id: a deterministic one-way
// 64-char hex digest (HMAC-SHA256 when TALLY_TOKEN_HMAC_KEY is set,
// SHA-256 otherwise). The digest is the sessions table primary key.
func DeriveID(tokenPlain string) string {
	return token.HashSessionTokenHex(tokenPlain)
}
