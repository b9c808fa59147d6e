// internal/middleware/session.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kartify/storefront-backend/internal/utils"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the caller's cart session from a signed token, or
// mints a new one. The token is echoed back in a response header so
// browser and mobile clients can persist it however they like.
func CartSession(tokenTTLHours int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader(cartSessionHeader); token != "" {
			if claims, err := utils.ValidateCartToken(token); err == nil {
				c.Set("cart_session", claims.CartID)
				c.Header(cartSessionHeader, token)
				c.Next()
				return
			}
			// Invalid or expired token: fall through and mint a fresh cart.
		}

		cartID := uuid.New()
		token, err := utils.GenerateCartToken(cartID, tokenTTLHours)
		if err != nil {
			logrus.WithError(err).Error("Failed to mint cart session token")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "failed to start cart session",
			})
			c.Abort()
			return
		}

		c.Set("cart_session", cartID.String())
		c.Header(cartSessionHeader, token)
		c.Next()
	}
}

// OptionalAuth attaches the user identity from a bearer token when one is
// present. Requests without one proceed anonymously; order history then
// falls back to cart-session scoping.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateUserToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
