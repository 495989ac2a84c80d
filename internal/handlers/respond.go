package handlers

import (
	"errors"

	"kirana/internal/middleware"
	"kirana/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrAuthentication):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrWrongRole):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateAccount):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrIneligible), errors.Is(err, models.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"message", "error"} with the status for err. Validation failures also
// carry per-field errors.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	body := fiber.Map{
		"message": models.Reason(err),
		"error":   err.Error(),
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		body["errors"] = verr.Fields
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// session returns the request's session; routes without AuthRequired get an empty one,
// which every service rejects with ErrAuthentication.
func session(c *fiber.Ctx) models.Session {
	sess, _ := middleware.CurrentSession(c)
	return sess
}
