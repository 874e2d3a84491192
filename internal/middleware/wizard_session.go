package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/pkg/jwt"
)

// WizardSessionContextKey is the key used to store the session in context
const WizardSessionContextKey = "wizard_session"

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// WizardSessionMiddleware validates the Bearer wizard token and adds the
// session to context
func WizardSessionMiddleware(tokenManager *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			_ = c.Error(fmt.Errorf("missing wizard token")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid wizard token: %w", err)) //nolint:errcheck
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		session := &models.WizardSession{
			ExecutiveID:   claims.ExecutiveID,
			ExecutiveName: claims.ExecutiveName,
			ExpiresAt:     claims.ExpiresAt.Unix(),
			IssuedAt:      claims.IssuedAt.Unix(),
		}

		c.Set(WizardSessionContextKey, session)
		c.Next()
	}
}

// GetWizardSession extracts the session from context
func GetWizardSession(c *gin.Context) (*models.WizardSession, error) {
	val, exists := c.Get(WizardSessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := val.(*models.WizardSession)
	if !ok {
		return nil, ErrInvalidSession
	}

	return session, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
