package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, h.Compare(digest, "correct horse battery staple"))
	assert.False(t, h.Compare(digest, "wrong password"))
	assert.False(t, h.Compare("not-a-digest", "anything"))
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("same password")
	require.NoError(t, err)
	second, err := h.Hash("same password")
	require.NoError(t, err)

	// Each digest carries its own salt, but both verify
	assert.NotEqual(t, first, second)
	assert.True(t, h.Compare(first, "same password"))
	assert.True(t, h.Compare(second, "same password"))
}
