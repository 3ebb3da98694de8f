package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ncs/internal/api/jwt"
)

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "jwt missing"})
			return
		}
		userId, email, err := jwt.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("user_id", userId)
		c.Set("email", email)
		c.Next()
	}
}
