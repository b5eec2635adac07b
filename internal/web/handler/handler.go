// Package handler holds shared pieces for the JSON API route handlers.
package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/config"
	"github.com/mushya-portal/mushya-portal/internal/currency"
	"github.com/mushya-portal/mushya-portal/internal/store"
)

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIPrefix is the path prefix for all JSON API routes.
	APIPrefix = "/api"

	// ErrNilDepsFatalLogMsg is used if the app or deps pointer is nil.
	ErrNilDepsFatalLogMsg = "app or deps is nil"
)

// Deps bundles what route handlers need to serve requests.
type Deps struct {
	Cfg      *config.Config
	KV       *store.KV
	Auth     *auth.Service
	Currency *currency.Manager
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// Error writes a JSON error body with the given status.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
