package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"freshmart/api/utils"
)

func tokenFromRequest(c *gin.Context) string {
	tokenString, err := c.Cookie("jwt_token")
	if err == nil && tokenString != "" {
		return tokenString
	}
	tokenString = c.GetHeader("Authorization")
	return strings.TrimPrefix(tokenString, "Bearer ")
}

// AuthRequired rejects requests without a valid JWT.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("AuthRequired: invalid JWT token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// OptionalAuth extracts the user identity when a valid token is present
// and lets the request through either way. Handlers see no user_id for
// anonymous callers, which is what triggers the cold-start path.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString != "" {
			if claims, err := utils.ValidateJWT(tokenString); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("user_email", claims.Email)
			} else {
				log.Debug().Err(err).Msg("OptionalAuth: ignoring invalid JWT token")
			}
		}
		c.Next()
	}
}
