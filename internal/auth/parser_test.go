package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermore-events/weddingops/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claimsMap jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsMap)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseValidToken(t *testing.T) {
	parser := NewParser(testSecret)
	userID := uuid.New()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "admin",
		"name": "Olivia",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	principal, err := parser.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, model.RoleAdmin, principal.Role)
	assert.Equal(t, "Olivia", principal.Name)
	assert.True(t, principal.IsAdmin())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	parser := NewParser(testSecret)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "staff",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	parser := NewParser(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "staff",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	parser := NewParser(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "owner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsBadSubject(t *testing.T) {
	parser := NewParser(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "not-a-uuid",
		"role": "staff",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}
