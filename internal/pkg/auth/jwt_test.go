package auth

import (
	"testing"
	"time"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "tutor-backend", 30*time.Minute)

	token, err := svc.GenerateToken("alice", entity.RoleEducator)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, entity.RoleEducator, claims.Role)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, "tutor-backend", time.Minute)
	token, err := svc.GenerateToken("alice", entity.RoleStudent)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestJWTService_RejectsForeignSecretAndIssuer(t *testing.T) {
	token, err := NewJWTService("another-secret-value", "tutor-backend", time.Minute).GenerateToken("alice", entity.RoleStudent)
	require.NoError(t, err)
	_, err = NewJWTService(testSecret, "tutor-backend", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	token, err = NewJWTService(testSecret, "someone-else", time.Minute).GenerateToken("alice", entity.RoleStudent)
	require.NoError(t, err)
	_, err = NewJWTService(testSecret, "tutor-backend", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	_, err = NewJWTService(testSecret, "tutor-backend", time.Minute).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearer ", "abc"} {
		_, err := ExtractTokenFromHeader(header)
		assert.ErrorIs(t, err, entity.ErrUnauthorized, header)
	}
}
