package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerify(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Generate("665f1d2ab3c4d5e6f7a8b9c0", "owner")
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "665f1d2ab3c4d5e6f7a8b9c0", claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, err := svc.Generate("665f1d2ab3c4d5e6f7a8b9c0", "customer")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, err := NewService("secret-a", time.Hour).Generate("665f1d2ab3c4d5e6f7a8b9c0", "admin")
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewService("test-secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
