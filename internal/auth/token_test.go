package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexTokenRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestGenerateOpaqueToken_Format(t *testing.T) {
	token := GenerateOpaqueToken()
	assert.Regexp(t, hexTokenRe, token)
}

func TestGenerateOpaqueToken_NoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		token := GenerateOpaqueToken()
		_, dup := seen[token]
		assert.False(t, dup, "duplicate token generated")
		seen[token] = struct{}{}
	}
}
