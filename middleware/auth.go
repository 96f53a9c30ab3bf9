package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/services"

	"github.com/gin-gonic/gin"
)

const (
	AdminClaimsKey = "adminClaims"
	AdminTokenKey  = "adminToken"
)

func bearerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "Bearer ") {
		return tokenString[7:]
	}
	return tokenString
}

// AdminAuth rejects requests without a live admin session token.
func AdminAuth(auth *services.AdminAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		claims, err := auth.Verify(c.Request.Context(), tokenString)
		switch {
		case errors.Is(err, services.ErrTokenRevoked):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		case errors.Is(err, services.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify session"})
			return
		}

		c.Set(AdminClaimsKey, claims)
		c.Set(AdminTokenKey, tokenString)
		c.Next()
	}
}

func AdminClaims(c *gin.Context) (*services.AdminClaims, bool) {
	v, ok := c.Get(AdminClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.AdminClaims)
	return claims, ok
}
