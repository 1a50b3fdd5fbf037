package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "cashier@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.TerminalID)
	assert.Equal(t, "cashier@example.com", claims.Email)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.GenerateAccessToken(uuid.New(), "cashier@example.com")
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(uuid.New(), "x@example.com")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(expired)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
