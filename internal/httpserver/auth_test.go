package httpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAuth(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	auth := NewTokenAuth("secret")
	auth.now = func() time.Time { return now }

	token, err := auth.Issue("grafana", "read", time.Hour)
	require.NoError(t, err)

	claims, err := auth.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "grafana", claims.Subject)
	assert.Equal(t, "read", claims.Scope)
	assert.NotEmpty(t, claims.ID)

	other := NewTokenAuth("other")
	other.now = auth.now
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	auth.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = auth.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = auth.Validate("nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenAuth_NoSecret(t *testing.T) {
	auth := NewTokenAuth("")
	_, err := auth.Issue("x", "", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = auth.Validate("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
