// Package cache holds the Redis-backed stores for pending MFA challenges and
// one-time verification codes. Both kinds of record are referenced by opaque
// hashes handed to API callers; the records themselves, including the code
// secret, never leave the server side.
package cache

import "errors"

var (
	// ErrNotFound reports that a hash does not resolve to a live record
	// (never stored, expired, or already consumed).
	ErrNotFound = errors.New("cache: not found")

	// ErrBackend reports that Redis itself failed. Callers surface this as a
	// retryable dependency error.
	ErrBackend = errors.New("cache: backend unavailable")
)

const (
	challengeKeyPrefix = "mfa:choose:"
	codeKeyPrefix      = "mfa:code:"
)
