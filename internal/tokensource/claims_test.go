package tokensource

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	iat := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	exp := iat.Add(24 * time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"role": "organizer",
		"iat":  iat.Unix(),
		"exp":  exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	claims, err := Describe(signed)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "organizer", claims.Role)
	assert.True(t, claims.IssuedAt.Equal(iat))
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(iat))
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestDescribeNumericSubject(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7}).
		SignedString([]byte("k"))
	require.NoError(t, err)

	claims, err := Describe(signed)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.False(t, claims.Expired(time.Now()))
}

func TestDescribeOpaqueToken(t *testing.T) {
	_, err := Describe("not-a-jwt")
	assert.Error(t, err)
}
