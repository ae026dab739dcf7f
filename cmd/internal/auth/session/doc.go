// Package session implements tally's cookie-backed session authority.
//
// Model:
//   - The client holds an opaque high-entropy token in an HttpOnly cookie.
//   - The server stores only a one-way digest of that token; the digest is the
//     session's primary key, so validation is a single indexed lookup and a
//     database leak never exposes usable tokens.
//   - Expiry is lazy: expired rows are deleted when they are next read. An
//     optional sweeper handles storage hygiene for sessions that never come
//     back.
//   - Sessions are renewed (sliding expiry) when less than a configurable
//     fraction of the lifetime remains, keeping active users signed in while
//     bounding writes to at most one per renewal window.
//
// Validation never treats absence as an error: a missing, expired or revoked
// session yields nil results, and only infrastructure failures are errors.
package session
