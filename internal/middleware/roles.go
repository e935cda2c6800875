package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rollcall-go-api/internal/utils"
)

// RequireRoles restricts a route group to callers whose token carries one of
// the allowed roles. Promotion runs are limited to office staff; attendance
// marking is open to teaching roles as well.
func RequireRoles(allowed ...string) fiber.Handler {
	normalized := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		normalized[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if role == "" {
			return utils.SendError(c, fiber.StatusForbidden, "role missing from token")
		}
		if _, ok := normalized[strings.ToLower(role)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
