// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"tournament-entry-system/models"
	"tournament-entry-system/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer token and attaches the caller's
// identity to the request context for handlers.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "msg": "authentication token missing",
			})
		}

		// Parse "Bearer <token>"
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix — try raw value
			token = authHeader
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			log.Printf("❌ [AUTH] Invalid token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "msg": "invalid or expired token",
			})
		}

		// Attach to ctx for handlers
		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Runs after
// AuthMiddleware; a missing role in Locals means the chain is miswired and
// the request is rejected.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		for _, r := range roles {
			if role == string(r) {
				return c.Next()
			}
		}
		log.Printf("🚫 [AUTH] Role %q not permitted on %s", role, c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "msg": "you do not have permission to perform this action",
		})
	}
}

// UserID returns the authenticated caller's id from the request context.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// UserRole returns the authenticated caller's role from the request context.
func UserRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("user_role").(string)
	return models.Role(role)
}

// IsAdmin reports whether the caller holds an admin-tier role.
func IsAdmin(c *fiber.Ctx) bool {
	role := UserRole(c)
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}
