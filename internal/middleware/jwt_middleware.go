package middleware

import (
	"strings"

	"flowershop/internal/apperrors"
	"flowershop/internal/models"
	"flowershop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Locals keys set by AuthRequired.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	RoleKey     = "role"
)

// AuthRequired is a Fiber middleware that admits requests carrying a valid
// admin JWT in the Authorization header.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.New(fiber.StatusUnauthorized, "Authorization header is required", nil)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperrors.New(fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'", nil)
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return apperrors.New(fiber.StatusUnauthorized, "Invalid or expired token", err)
		}

		if role, _ := claims[RoleKey].(string); role != models.RoleAdmin {
			return apperrors.New(fiber.StatusForbidden, "Admin access required", nil)
		}

		c.Locals(UserIDKey, claims[UserIDKey])
		c.Locals(UsernameKey, claims[UsernameKey])
		c.Locals(RoleKey, claims[RoleKey])
		return c.Next()
	}
}
