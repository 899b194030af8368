package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"accounts/pkg/logger"
	"accounts/pkg/models"
	"accounts/pkg/services"
)

type UsersHandler struct {
	service services.AuthService
	log     *logger.Logger
}

func NewUsers(service services.AuthService, log *logger.Logger) *UsersHandler {
	return &UsersHandler{service: service, log: log}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.service.ListUsers()
	if err != nil {
		h.log.Error("list users failed", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(models.UserListResponse{Users: users})
}

// Profile resolves the token subject set by the auth middleware.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	user, err := h.service.Profile(username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		h.log.Error("profile lookup failed", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(user)
}
