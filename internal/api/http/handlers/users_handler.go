package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// UsersHandler exposes the admin user directory.
type UsersHandler struct {
	users *service.UserService
}

func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserList(users))
}
