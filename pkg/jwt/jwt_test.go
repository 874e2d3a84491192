package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, "onboarding-api", 12)

	token, expiresAt, err := tm.GenerateToken("exec-1", "Carla Rojas")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "exec-1", claims.ExecutiveID)
	assert.Equal(t, "Carla Rojas", claims.ExecutiveName)
	assert.Equal(t, "exec-1", claims.Subject)
	assert.Equal(t, "onboarding-api", claims.Issuer)
	assert.Equal(t, 12*time.Hour, tm.GetExpirationTime())
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, "onboarding-api", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateToken("exec-1", "Carla")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, "onboarding-api", 1)
	other := NewTokenManager(strings.Repeat("x", 32), "onboarding-api", 1)

	token, _, err := issuer.GenerateToken("exec-1", "Carla")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	issuer := NewTokenManager(testSecret, "someone-else", 1)
	tm := NewTokenManager(testSecret, "onboarding-api", 1)

	token, _, err := issuer.GenerateToken("exec-1", "Carla")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	tm := NewTokenManager(testSecret, "onboarding-api", 1)

	claims := WizardClaims{
		ExecutiveID: "exec-1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "onboarding-api",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_MissingExecutive(t *testing.T) {
	tm := NewTokenManager(testSecret, "onboarding-api", 1)

	token, _, err := tm.GenerateToken("", "Carla")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaim)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, "onboarding-api", 1)

	_, err := tm.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
