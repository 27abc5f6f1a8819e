package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashAccountKey returns a filesystem-safe identifier for an account scope.
func HashAccountKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
