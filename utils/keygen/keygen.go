// Package keygen generates random secrets for first-run configuration.
package keygen

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenSecret returns a hex-encoded 32-byte random secret suitable for
// signing session tokens.
func TokenSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
