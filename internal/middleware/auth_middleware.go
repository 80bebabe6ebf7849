package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/auth"
)

// Context keys set by JWTAuth.
const (
	ContextAccountID = "accountID"
	ContextEmail     = "email"
	ContextGroupName = "groupName"
)

// AuthMiddleware guards routes with JWT validation and group checks.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the account identity on the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(http.StatusUnauthorized, "Invalid authorization header"))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextGroupName, claims.GroupName)
		c.Next()
	}
}

// RequireGroup allows only accounts belonging to one of the named groups.
// Must run after JWTAuth.
func (m *AuthMiddleware) RequireGroup(groups ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(groups))
	for _, g := range groups {
		allowed[g] = true
	}
	return func(c *gin.Context) {
		groupName := c.GetString(ContextGroupName)
		if !allowed[groupName] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(http.StatusForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// AccountID returns the authenticated account ID from the context.
func AccountID(c *gin.Context) int64 {
	return c.GetInt64(ContextAccountID)
}
