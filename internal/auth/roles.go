package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/domain"
	apperrors "github.com/spec-kit/asset-inventory/pkg/util"
)

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[actor.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireManager restricts a route to managers.
func RequireManager() fiber.Handler {
	return RequireRole(domain.UserRoleManager)
}

// RequireAssigner restricts a route to roles allowed to hand out assets.
func RequireAssigner() fiber.Handler {
	return RequireRole(domain.UserRoleManager, domain.UserRoleTechnician)
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return RequireRole()
}
