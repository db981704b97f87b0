package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenstock/internal/pkg/token"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := token.NewService("segredo-de-teste", time.Hour)

	signed, err := svc.GenerateToken("user-1", "bp-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "bp-1", claims.BusinessProfileID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signed, err := token.NewService("segredo-a", time.Hour).GenerateToken("user-1", "bp-1", "user")
	require.NoError(t, err)

	_, err = token.NewService("segredo-b", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := token.NewService("segredo", -time.Minute)
	signed, err := svc.GenerateToken("user-1", "bp-1", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_MissingTenant(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)
	signed, err := svc.GenerateToken("user-1", "", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateToken_RejectsUnsignedToken(t *testing.T) {
	claims := token.CustomClaims{
		BusinessProfileID: "bp-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(unsigned)
	assert.Error(t, err)
}
