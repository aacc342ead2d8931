package middlewares

import (
	"errors"

	"ledger-backend/logger"
	"ledger-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func httpLog() *zerolog.Logger {
	l := logger.WithComponent("http")
	return &l
}

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Struct tag validation (422 + per-field info)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Domain errors
	var field *models.ValidationError
	switch {
	case errors.As(err, &field):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": field.Error(),
			"field":   field.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, models.ErrAlreadyPaid), errors.Is(err, models.ErrAlreadyFullyPaid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	}

	// 4) Unknown errors (500)
	httpLog().Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("owner_id", OwnerID(c)).
		Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
