package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware provides JWT authentication for Gin routes.
type Middleware struct {
	jwtService *JWTService
}

// NewMiddleware builds a Middleware bound to svc.
func NewMiddleware(svc *JWTService) *Middleware {
	return &Middleware{jwtService: svc}
}

// RequireAuth rejects requests without a valid bearer token and stores
// the parsed claims in the request context under "claims".
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// CurrentClaims fetches the claims a prior RequireAuth call stored.
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
