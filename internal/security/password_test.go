package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WooodHead/blog-be-next/internal/security"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, string(hash), "correct horse")

	assert.True(t, security.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, security.VerifyPassword("wrong password", hash))
	assert.False(t, security.VerifyPassword("", hash))
}

func TestPasswordHashUniqueSalts(t *testing.T) {
	t.Parallel()

	first, err := security.HashPassword("pw1")
	require.NoError(t, err)
	second, err := security.HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, security.VerifyPassword("pw1", first))
	assert.True(t, security.VerifyPassword("pw1", second))
}
