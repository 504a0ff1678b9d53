package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateOpaqueToken returns a 64-character hex token from 32 bytes of
// crypto randomness. Used for agreement access tokens and refresh tokens;
// generated once and never reissued.
func GenerateOpaqueToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the host is broken; nothing sane to return
		panic(err)
	}
	return hex.EncodeToString(b)
}
