package security

import (
	"crypto/rand"
	"encoding/hex"
)

// refreshSecretBytes is the entropy of a raw refresh secret. 32 bytes = 256 bits.
const refreshSecretBytes = 32

// NewRefreshSecret returns a cryptographically random refresh secret, hex-encoded.
// The raw secret is handed to the client inside the opaque token and must never be
// stored or logged; only its bcrypt hash is persisted.
func NewRefreshSecret() (string, error) {
	b := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
