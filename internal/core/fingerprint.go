package core

import (
	"crypto/sha256"
	"encoding/hex"
)

func Fingerprint(text string) string {
	if text == "" {
		return ""
	}
	return FingerprintBytes([]byte(text))
}

func FingerprintBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
