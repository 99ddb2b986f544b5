package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.Sign("user-1")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).Sign("user-1")
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour).Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := NewService("test-secret", -time.Minute).Sign("user-1")
	require.NoError(t, err)

	_, err = NewService("test-secret", -time.Minute).Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewService("test-secret", time.Hour).Verify("not-a-token")
	require.Error(t, err)
}
