package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"taskhub/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenMiddleware parses the bearer access token and stores the acting
// identity (userId, role) in the gin context.
func AccessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		tokenString := strings.Replace(header, "Bearer ", "", 1)
		token, err := jwt.ParseWithClaims(tokenString, &model.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET_KEY")), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is expired or invalid: " + err.Error()})
			return
		}

		claims, ok := token.Claims.(*model.AccessClaims)
		if !ok || !token.Valid || claims.UserID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", model.Role(claims.Role))
		c.Next()
	}
}

// RoleMiddleware rejects requests whose actor role is not in the allowed
// set. Must run after AccessTokenMiddleware.
func RoleMiddleware(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in context"})
			return
		}
		role := roleValue.(model.Role)
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

// RefreshTokenMiddleware validates the bearer refresh token and stores the
// user id for the refresh handler.
func RefreshTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is missing"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &model.RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_REFRESH_SECRET_KEY")), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid refresh token: " + err.Error()})
			return
		}

		claims, ok := token.Claims.(*model.RefreshClaims)
		if !ok || !token.Valid || claims.UserID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token claims"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Next()
	}
}
