// Package auth holds the shared-secret check used to gate privileged operations.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Authorizer decides whether a presented credential grants access.
type Authorizer interface {
	Authorize(credential string) bool
}

// SecretAuthorizer accepts exactly one configured secret.
// An empty secret rejects every credential, including the empty one.
type SecretAuthorizer struct {
	secret []byte
}

// NewSecretAuthorizer creates an authorizer for the given secret
func NewSecretAuthorizer(secret string) *SecretAuthorizer {
	return &SecretAuthorizer{secret: []byte(secret)}
}

// Configured reports whether a secret was supplied at all
func (a *SecretAuthorizer) Configured() bool {
	return len(a.secret) > 0
}

// Authorize compares in constant time
func (a *SecretAuthorizer) Authorize(credential string) bool {
	if len(a.secret) == 0 || credential == "" {
		return false
	}
	return TimingSafeCompare(credential, string(a.secret))
}

// TimingSafeCompare performs a timing-safe comparison of two strings
// This prevents timing attacks when comparing tokens
func TimingSafeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ExtractToken pulls a credential out of the Authorization header,
// accepting "Bearer <token>" or a bare token. The fallback header is only
// consulted when Authorization is absent; a present but blank Authorization
// yields an empty credential.
func ExtractToken(h http.Header, fallbackHeader string) string {
	if values := h.Values("Authorization"); len(values) > 0 {
		return strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
	}
	return strings.TrimSpace(h.Get(fallbackHeader))
}

var _ Authorizer = (*SecretAuthorizer)(nil)
