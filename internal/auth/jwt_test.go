package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT("user-42", secret, time.Hour)
	require.NoError(t, err)

	owner, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-42", owner)
}

func TestValidateToken_Rejects(t *testing.T) {
	token, err := GenerateJWT("user-42", secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, []byte("other-secret"))
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := expired.SignedString(secret)
	require.NoError(t, err)
	_, err = ValidateToken(signed, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err = noSubject.SignedString(secret)
	require.NoError(t, err)
	_, err = ValidateToken(signed, secret)
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = ValidateToken("not.a.token", secret)
	assert.Error(t, err)
}

func TestGenerateJWT_RequiresInputs(t *testing.T) {
	_, err := GenerateJWT("", secret, time.Hour)
	assert.Error(t, err)
	_, err = GenerateJWT("u", nil, time.Hour)
	assert.Error(t, err)
}
