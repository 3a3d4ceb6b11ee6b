package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return raw
}

func TestPeekReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := sign(t, jwt.MapClaims{
		"username": "ada",
		"role":     "admin",
		"exp":      exp.Unix(),
	})

	claims, err := Peek(raw)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}

func TestPeekMalformedToken(t *testing.T) {
	_, err := Peek("definitely.not-a.token")
	assert.Error(t, err)

	_, err = Peek("")
	assert.Error(t, err)
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	raw := sign(t, jwt.MapClaims{"exp": exp.Unix()})

	got, err := ExpiresAt(raw)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestExpiresAtWithoutClaim(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"username": "ada"})

	_, err := ExpiresAt(raw)
	assert.ErrorIs(t, err, ErrNoExpiry)
}
