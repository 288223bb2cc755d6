package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndVerifyToken(t *testing.T) {
	token, err := CreateToken("s3cret", "local|ada", "ada")
	require.NoError(t, err)

	claims, err := VerifyToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "local|ada", claims.Subject)
	assert.Equal(t, "ada", claims.Nickname)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyToken_Rejects(t *testing.T) {
	token, err := CreateToken("s3cret", "local|ada", "ada")
	require.NoError(t, err)

	_, err = VerifyToken("other", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyToken("s3cret", token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyToken("", token)
	assert.ErrorIs(t, err, ErrMissingSecret)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "local|ada",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = VerifyToken("s3cret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "local|ada",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err = foreign.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = VerifyToken("s3cret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateToken_MissingSecret(t *testing.T) {
	_, err := CreateToken("", "sub", "nick")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
