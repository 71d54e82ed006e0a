package utils

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
)

func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// SHA1Hex is used only to derive stable per-user storage prefixes.
func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
