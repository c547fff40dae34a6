package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPlainComparer(t *testing.T) {
	c := PlainComparer{}
	assert.True(t, c.Compare("pw", "pw"))
	assert.False(t, c.Compare("pw", "PW"))
	assert.False(t, c.Compare("pw", ""))
}

func TestBcryptComparer(t *testing.T) {
	hash, err := HashPassword("pw", bcrypt.MinCost)
	require.NoError(t, err)

	c := BcryptComparer{}
	assert.True(t, c.Compare(hash, "pw"))
	assert.False(t, c.Compare(hash, "nope"))
	assert.False(t, c.Compare("pw", "pw"), "plaintext is not a valid hash")
}

func TestNewPasswordComparer(t *testing.T) {
	c, err := NewPasswordComparer("")
	require.NoError(t, err)
	assert.IsType(t, PlainComparer{}, c)

	c, err = NewPasswordComparer("BCRYPT")
	require.NoError(t, err)
	assert.IsType(t, BcryptComparer{}, c)

	_, err = NewPasswordComparer("md5")
	assert.Error(t, err)
}
