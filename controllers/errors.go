package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/utils"
)

// statusForError maps the service failure taxonomy onto HTTP statuses so
// callers always get the specific kind, never a generic failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDisabled):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotProvider),
		errors.Is(err, services.ErrNotRegularUser),
		errors.Is(err, services.ErrNotAdmin),
		errors.Is(err, services.ErrNotBookedByUser):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrAlreadyBooked),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrCanceled),
		errors.Is(err, services.ErrUserExists):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrExpired),
		errors.Is(err, services.ErrPastStart),
		errors.Is(err, services.ErrInvertedInterval),
		errors.Is(err, services.ErrInvalidType),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrNotBooked):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(utils.NewErrorResponse(message, err))
}
