package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claims")
)

// WizardClaims are the claims of an onboarding wizard session. The session
// belongs to the executive created in the first wizard step.
type WizardClaims struct {
	ExecutiveID   string `json:"executive_id"`
	ExecutiveName string `json:"executive_name"`
	jwt.RegisteredClaims
}

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, issuer string, ttlHours int) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(ttlHours) * time.Hour,
		now:    time.Now,
	}
}

// GenerateToken creates a wizard session token for an executive and
// returns it with its expiry
func (tm *TokenManager) GenerateToken(executiveID, executiveName string) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)

	claims := WizardClaims{
		ExecutiveID:   executiveID,
		ExecutiveName: executiveName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   executiveID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (tm *TokenManager) ValidateToken(tokenString string) (*WizardClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &WizardClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tm.issuer), jwt.WithTimeFunc(tm.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*WizardClaims)
	if !ok || !token.Valid || claims.ExecutiveID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// GetExpirationTime returns the token lifetime
func (tm *TokenManager) GetExpirationTime() time.Duration {
	return tm.ttl
}
