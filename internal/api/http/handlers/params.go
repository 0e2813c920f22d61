package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/asset-inventory/internal/auth"
	"github.com/spec-kit/asset-inventory/internal/domain"
	apperrors "github.com/spec-kit/asset-inventory/pkg/util"
)

const maxPageSize = 200

func currentActor(c *fiber.Ctx) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}

// pagination reads limit and offset, clamping limit to maxPageSize.
func pagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err = queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	if limit < 0 || offset < 0 {
		return 0, 0, apperrors.NewValidationError("limit and offset must not be negative", nil)
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, offset, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid query parameter", map[string]any{key: raw})
	}
	return v, nil
}

func queryBool(c *fiber.Ctx, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError("invalid query parameter", map[string]any{key: raw})
	}
	return v, nil
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
