package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"diaconia/backend/config"
	"diaconia/backend/errs"
	"diaconia/backend/models"
	"diaconia/backend/utils"
)

const (
	LocalUserID = "userID"
	LocalRole   = "role"
)

// UserLookup is what the middleware needs to check that a token's user still exists.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware accepts a Bearer token whose user still exists and is active, and stores
// the user id and role in the request locals.
func AuthMiddleware(cfg *config.Config, users UserLookup, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ParseToken(c.Get(fiber.HeaderAuthorization), cfg)
		if err != nil {
			return utils.HandleError(c, log, err)
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if errors.Is(err, errs.ErrNotFound) {
			return utils.HandleError(c, log, errors.Wrap(errs.ErrUnauthenticated, "user no longer exists"))
		}
		if err != nil {
			return utils.HandleError(c, log, err)
		}
		if !user.IsActive {
			return utils.HandleError(c, log, errors.Wrap(errs.ErrUnauthenticated, "account disabled"))
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, user.Role)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalRole).(string); role != models.RoleAdmin {
			return utils.HandleError(c, log, errors.Wrap(errs.ErrForbidden, "admin access required"))
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id set by AuthMiddleware.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(LocalRole).(string)
	return role == models.RoleAdmin
}
