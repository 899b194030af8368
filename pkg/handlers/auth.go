package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"accounts/pkg/logger"
	"accounts/pkg/models"
	"accounts/pkg/services"
)

type AuthHandler struct {
	service services.AuthService
	log     *logger.Logger
}

func NewAuth(service services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	user, err := h.service.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, models.ErrDuplicateUsername):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
		default:
			h.log.Error("register failed", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(models.RegisterResponse{
		Message:  "User created successfully",
		Username: user.Username,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	signed, user, err := h.service.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, models.ErrInvalidCredentials):
			// One body for unknown username and wrong password.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		default:
			h.log.Error("login failed", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.JSON(models.LoginResponse{
		Message: "Login successful",
		Token:   signed,
		UserID:  user.ID,
	})
}
