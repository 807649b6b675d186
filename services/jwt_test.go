package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return &JWTService{
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 30 * 24 * time.Hour,
		jwtSecretKey:         "test-secret",
	}
}

func TestJWTService_TokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair("u1", "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	userID, sessionID, err := svc.VerifyJWTToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "s1", sessionID)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair("u1", "s1")
	require.NoError(t, err)

	other := newTestJWTService()
	other.jwtSecretKey = "different-secret"

	_, _, err = other.VerifyJWTToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.signToken("u1", "s1", -time.Minute)
	require.NoError(t, err)

	_, _, err = svc.VerifyJWTToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestJWTService()

	_, _, err := svc.VerifyJWTToken("not-a-jwt")
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenFromHeader(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = svc.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = svc.ExtractTokenFromHeader("Basic abc123")
	assert.Error(t, err)
}
