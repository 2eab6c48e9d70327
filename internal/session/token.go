package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenPrefix marks makdo session tokens so they are recognizable in
// configuration and admin traffic without being guessable.
const tokenPrefix = "mkd_"

// tokenBytes is the entropy of a session token before encoding.
const tokenBytes = 32

// previewLen is how many characters of a token may appear in logs.
const previewLen = 12

// NewToken generates a fresh session token. The token is the sole lookup
// key for a session and must be unguessable.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokenPreview truncates a token for log output. Full tokens must never be
// logged: log streams are routinely shipped to sinks less trusted than the
// registry itself.
func TokenPreview(token string) string {
	if len(token) <= previewLen {
		return token
	}
	return token[:previewLen] + "..."
}
