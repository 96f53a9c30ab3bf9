package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
	CartSessionKey    = "cartSession"
)

// CartSession resolves the shopper's cart session from the header or
// cookie, issuing a fresh one when neither carries a valid id.
func CartSession(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.GetHeader(CartSessionHeader)
		if session == "" {
			session, _ = c.Cookie(CartSessionCookie)
		}

		if _, err := uuid.Parse(session); err != nil {
			session = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartSessionCookie, session, maxAge, "/", "", false, true)
		c.Header(CartSessionHeader, session)
		c.Set(CartSessionKey, session)
		c.Next()
	}
}
