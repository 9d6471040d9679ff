package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
	"github.com/noah-isme/hallticket-portal/pkg/logger"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

// ContextSessionKey is the gin context key storing the session claims.
const ContextSessionKey = "session"

// TokenValidator validates session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// Session protects routes by requiring a valid session token.
func Session(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "login required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Set(logger.RollNumberKey, claims.RollNumber)
		c.Next()
	}
}

// SessionFromContext returns the claims stored by Session.
func SessionFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
