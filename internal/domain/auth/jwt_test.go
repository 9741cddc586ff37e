package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(secret string) *JWTService {
	return NewJWTService(DefaultJWTConfig(secret))
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService("test-secret")

	user := NewUser("mario@example.com", "Mario")
	user.IsAdmin = true

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "mario@example.com", uc.Email)
	assert.Equal(t, "Mario", uc.Name)
	assert.True(t, uc.IsAdmin)
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	token, _, err := newTestJWTService("secret-a").GenerateAccessToken(NewUser("a@b.c", "A"))
	require.NoError(t, err)

	_, err = newTestJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredTokenRejected(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(NewUser("a@b.c", "A"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_WrongSigningMethodRejected(t *testing.T) {
	// An unsigned token must never validate, whatever its claims say.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fatturo",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "attacker",
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestJWTService("test-secret").ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTService_GarbageRejected(t *testing.T) {
	_, err := newTestJWTService("test-secret").ValidateToken("not-a-token")
	assert.Error(t, err)
}
