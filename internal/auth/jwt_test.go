package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	clientID := uuid.New()
	userID := uuid.New()

	token, err := GenerateToken(clientID, userID, "owner@acme.test", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@acme.test", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), uuid.New(), "a@b.test", "admin", testSecret, -time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseToken(tt.token, testSecret)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), uuid.New(), "a@b.test", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "some-other-secret")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
