package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("initial-1234")
	require.NoError(t, err)
	assert.NotEqual(t, "initial-1234", hash)

	assert.True(t, CheckPassword(hash, "initial-1234"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "initial-1234"))
}
