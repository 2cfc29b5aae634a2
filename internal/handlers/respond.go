package handlers

import (
	"errors"

	"atelier/internal/apperrors"
	"atelier/internal/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// notesOf returns the recorded notifications, never nil so they serialise as [].
func notesOf(rec *notify.Recorder) []notify.Notification {
	if rec == nil {
		return []notify.Notification{}
	}
	return rec.All()
}

// fail maps err onto a status code and the JSON error body used by every handler.
func fail(c *fiber.Ctx, log zerolog.Logger, err error, rec *notify.Recorder) error {
	var (
		validationErr *apperrors.ValidationError
		storeErr      *apperrors.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":       "Validation failed",
			"errors":        fiber.Map{validationErr.Field: validationErr.Error()},
			"notifications": notesOf(rec),
		})
	case errors.Is(err, apperrors.ErrConfirmationRequired):
		return c.Status(fiber.StatusPreconditionRequired).JSON(fiber.Map{
			"message":       "Confirmation required, repeat the request with confirm=true",
			"error":         err.Error(),
			"notifications": notesOf(rec),
		})
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message":       "Not found",
			"error":         err.Error(),
			"notifications": notesOf(rec),
		})
	case errors.As(err, &storeErr):
		log.Error().Err(err).Str("op", storeErr.Op).Str("path", c.Path()).Msg("store operation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":       "Operation failed",
			"error":         storeErr.Error(),
			"notifications": notesOf(rec),
		})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":       "Internal server error",
			"error":         err.Error(),
			"notifications": notesOf(rec),
		})
	}
}
