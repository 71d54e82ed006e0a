package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	c, err := NewCipher("app-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("EAAB-token")
	require.NoError(t, err)
	assert.NotEqual(t, "EAAB-token", sealed)

	again, err := c.Seal("EAAB-token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "EAAB-token", opened)
}

func TestCipherEdgeCases(t *testing.T) {
	_, err := NewCipher("")
	assert.Error(t, err)

	c, err := NewCipher("app-secret")
	require.NoError(t, err)

	empty, err := c.Seal("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = c.Open("c2hvcnQ=")
	assert.Error(t, err)

	other, err := NewCipher("different")
	require.NoError(t, err)
	sealed, err := other.Seal("x")
	require.NoError(t, err)
	_, err = c.Open(sealed)
	assert.Error(t, err)
}

func TestHashes(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(nil))
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", SHA1Hex(""))
}
