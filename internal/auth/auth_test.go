package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	username, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenRejection(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Signed with a different secret.
	other := NewService("other-secret", time.Hour)
	token, err := other.IssueToken("alice")
	require.NoError(t, err)
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired.
	expired := NewService("test-secret", -time.Minute)
	token, err = expired.IssueToken("alice")
	require.NoError(t, err)
	_, err = expired.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
