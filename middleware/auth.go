// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts user identity and roles set by the Gateway.
// It never rejects: tracking routes accept anonymous callers, so an empty
// X-User-ID just means "not logged in". RequireUser/AdminOnly enforce.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}

// RequireUser rejects requests that carry no user context.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "missing X-User-ID — request must come through gateway with auth context",
			})
		}
		return c.Next()
	}
}

// AdminOnly rejects callers without the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasRole(c, "admin") {
			log.Printf("🚫 [USER_CTX] admin role required for %s (user=%s)", c.Path(), UserID(c))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "admin role required",
			})
		}
		return c.Next()
	}
}

// UserID returns the caller's external user ID, or "" for anonymous callers.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// HasRole reports whether the caller carries the given role.
func HasRole(c *fiber.Ctx, role string) bool {
	roles, ok := c.Locals("user_roles").([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
