// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fraudgen/internal/models"
	"fraudgen/internal/utils"
)

const claimsKey = "claims"

// AdminAuth validates an admin bearer token signed with secret and stores
// the claims in the request context. An empty secret disables the check.
func AdminAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return utils.Unauthorized(c, "missing authorization header")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.Unauthorized(c, "invalid authorization format")
		}

		claims, err := utils.ParseAdminToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			zap.L().Warn("admin token rejected",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Error(err),
			)
			return utils.Unauthorized(c, "invalid token")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// HasPermission returns a middleware that checks for a specific permission.
// Requests that passed through a disabled AdminAuth carry no claims and
// are allowed.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals(claimsKey)
		if raw == nil {
			return c.Next()
		}
		claims, ok := raw.(*models.AdminClaims)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		zap.L().Warn("permission denied",
			zap.String("subject", claims.Subject),
			zap.String("permission", permission),
		)
		return utils.Forbidden(c, "Insufficient permissions")
	}
}

// Claims returns the admin claims stored by AdminAuth, if any.
func Claims(c *fiber.Ctx) (*models.AdminClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*models.AdminClaims)
	return claims, ok
}
