package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(&config.AuthConfig{TokenExpiry: time.Hour})
	require.NoError(t, err)

	token, err := svc.GenerateToken("student-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.ClientID)
	assert.Equal(t, "cpuschedsim", claims.Issuer)
}

func TestJWTService_RejectsGarbageToken(t *testing.T) {
	svc, err := NewJWTService(&config.AuthConfig{})
	require.NoError(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_RejectsTokenFromAnotherKeyPair(t *testing.T) {
	svc1, err := NewJWTService(&config.AuthConfig{})
	require.NoError(t, err)
	svc2, err := NewJWTService(&config.AuthConfig{})
	require.NoError(t, err)

	token, err := svc1.GenerateToken("student-1")
	require.NoError(t, err)

	_, err = svc2.ValidateToken(token)
	assert.Error(t, err)
}
