package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/repository"
	"mediamanager/utils"
)

// ResolveUser establishes the acting user for every request. A valid
// bearer token wins; without one the request runs as the seeded default
// account, so a single-user deployment needs no auth setup at all.
func ResolveUser(users repository.UserRepository, jwtSecret, defaultEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractBearerToken(c); token != "" {
			claims, err := utils.VerifyJWTToken(token, jwtSecret)
			if err != nil {
				utils.UnauthorizedResponse(c, "Invalid or expired token")
				c.Abort()
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.UnauthorizedResponse(c, "Invalid user ID in token")
				c.Abort()
				return
			}

			c.Set("userId", userID)
			c.Set("email", claims.Email)
			c.Set("name", claims.Name)
			c.Next()
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), defaultEmail)
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Default account not configured", nil)
			c.Abort()
			return
		} else if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to resolve user", nil)
			c.Abort()
			return
		}

		c.Set("userId", user.ID)
		c.Set("email", user.Email)
		c.Set("name", user.Name)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}
