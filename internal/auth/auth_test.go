package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPINHashRoundTrip(t *testing.T) {
	hash, err := HashPIN("123456")
	require.NoError(t, err)

	assert.NoError(t, VerifyPIN("123456", hash))
	assert.Error(t, VerifyPIN("654321", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "ewallet-test", time.Minute)

	tok, exp, err := tm.Generate("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ewallet-test", claims.Issuer)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "ewallet-test", time.Minute)
	other := NewTokenManager("other-secret", "ewallet-test", time.Minute)

	tok, _, err := tm.Generate("user-1")
	require.NoError(t, err)

	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "ewallet-test", -time.Minute)
	tok, _, err := tm.Generate("user-1")
	require.NoError(t, err)

	_, err = tm.Parse(tok)
	assert.Error(t, err)
}
