package password

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_NotPlaintext(t *testing.T) {
	hash, err := GetHash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.NotEmpty(t, hash)
}

func TestGetHash_SaltIsRandom(t *testing.T) {
	first, err := GetHash("secret123")
	require.NoError(t, err)
	second, err := GetHash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerify_RandomizedPairs(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		correct := fmt.Sprintf("pass-%d-%d", i, rnd.Int63())
		wrong := fmt.Sprintf("wrong-%d-%d", i, rnd.Int63())

		hash, err := GetHash(correct)
		require.NoError(t, err)

		assert.True(t, Verify(correct, hash), "correct password must verify")
		assert.False(t, Verify(wrong, hash), "wrong password must not verify")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty hash", hash: ""},
		{name: "not a bcrypt hash", hash: "plaintext"},
		{name: "truncated hash", hash: "$2a$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("anything", tt.hash))
		})
	}
}
