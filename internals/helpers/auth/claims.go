package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"coursedig_backend/internals/constants"
)

var ErrNoUserContext = errors.New("no authenticated user in request context")

// GetUserID reads the authenticated user id placed in locals by the JWT
// middleware.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, ErrNoUserContext
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrNoUserContext
	}
	return id, nil
}

func GetUserRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("userRole").(string); ok {
		return role
	}
	return ""
}

func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok {
		return email
	}
	return ""
}

func IsAdmin(c *fiber.Ctx) bool {
	role := GetUserRole(c)
	return role == constants.RoleAdmin || role == constants.RoleSuperAdmin
}

func IsSuperAdmin(c *fiber.Ctx) bool {
	return GetUserRole(c) == constants.RoleSuperAdmin
}
