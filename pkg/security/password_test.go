package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("a-long-password")
	require.NoError(t, err)
	assert.NotEqual(t, "a-long-password", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, hasher.Compare(hash, "a-long-password"))
	assert.False(t, hasher.Compare(hash, "a-wrong-password"))
}

func TestHashRejectsShortPasswords(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHashesAreSalted(t *testing.T) {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("a-long-password")
	require.NoError(t, err)
	second, err := hasher.Hash("a-long-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCompareEmptyInputs(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("a-long-password")
	require.NoError(t, err)
	assert.False(t, hasher.Compare(hash, ""))
	assert.False(t, hasher.Compare("", "a-long-password"))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("a-long-password")
	require.NoError(t, err)
	assert.True(t, hasher.Compare(hash, "a-long-password"))
}
