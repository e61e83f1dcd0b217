package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"healthcare-appointment-service/internal/auth"
	"healthcare-appointment-service/internal/models"
	"healthcare-appointment-service/internal/utils"
)

const identityKey = "identity"

// AuthMiddleware extracts the bearer credential and resolves it through the
// auth collaborator. Missing or rejected credentials yield 401; failures
// reaching the collaborator are logged and reported as internal errors.
func AuthMiddleware(verifier auth.Verifier, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredential) {
				utils.Unauthorized(c, "Invalid or expired credential")
			} else {
				logger.Error().Err(err).Msg("credential verification failed")
				utils.InternalServerError(c)
			}
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentityFromContext(c)
		if !ok {
			utils.Unauthorized(c, "Caller identity not resolved")
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if identity.Role == allowed {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetIdentityFromContext returns the caller identity set by AuthMiddleware.
func GetIdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
