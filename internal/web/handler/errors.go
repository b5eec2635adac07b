package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mushya-portal/mushya-portal/internal/store"
)

// StoreError maps store errors to JSON API responses. Unrecognized
// errors become a 500 with a generic body so storage details never
// leak to clients.
func StoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Error(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		return Error(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, store.ErrProtectedRole):
		return Error(c, fiber.StatusForbidden, "role is protected")
	case errors.Is(err, store.ErrUnknownPermission):
		return Error(c, fiber.StatusBadRequest, "unknown permission key")
	default:
		return Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
