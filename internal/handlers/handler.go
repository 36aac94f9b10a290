package handlers

import (
	"errors"
	"xrayserver/internal/handlers/middleware"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case IsValidation(err):
		status = fiber.StatusUnprocessableEntity
	case IsGuardViolation(err):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrDuplicateIdentity):
		status = fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	}

	return c.Status(status).JSON(fiber.Map{"message": "error", "error": err.Error()})
}

func currentUser(c *fiber.Ctx) User {
	user, _ := c.Locals("user").(User)
	return user
}
