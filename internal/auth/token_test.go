package auth

import (
	"testing"
	"time"

	"github.com/jaykukadiya/Issue-tracker/config"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour})

	token, err := tm.Generate("alice")
	require.NoError(t, err)

	sub, err := tm.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "alice", sub)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager(config.JWTConfig{Secret: "test-secret", TokenTTL: -time.Minute})

	token, err := tm.Generate("alice")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour})
	other := NewTokenManager(config.JWTConfig{Secret: "other-secret", TokenTTL: time.Hour})

	token, err := tm.Generate("alice")
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager(config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour})

	_, err := tm.Validate("not-a-token")
	require.Error(t, err)
}
