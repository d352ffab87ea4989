package middleware

import (
	"crypto/rand"
	"encoding/hex"
)

// secretLength is the key size gorilla/csrf expects.
const secretLength = 32

// GenerateSecret returns a random hex-encoded 32-byte secret.
func GenerateSecret() (string, error) {
	bytes := make([]byte, secretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSecret turns a configured SECRET_KEY into key bytes. Hex values are
// decoded; anything else is used as raw bytes.
func DecodeSecret(secret string) []byte {
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) > 0 {
		return decoded
	}
	return []byte(secret)
}
