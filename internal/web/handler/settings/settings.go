// Package settings implements the portal settings endpoints.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/catalog"
	"github.com/mushya-portal/mushya-portal/internal/currency"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
)

// CurrencyPath is the path of the currency settings endpoints.
const CurrencyPath = handler.APIPrefix + "/settings/currency"

// Service is the settings handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Get(CurrencyPath, auth.RequirePermission(catalog.PermSettingsView), s.GetCurrency)
	app.Put(CurrencyPath, auth.RequirePermission(catalog.PermSettingsEdit), s.PutCurrency)

	return nil
}

// GetCurrency returns the portal-wide currency settings.
func (s *Service) GetCurrency(c *fiber.Ctx) error {
	return c.JSON(s.deps.Currency.Settings())
}

// PutCurrency replaces the currency settings.
func (s *Service) PutCurrency(c *fiber.Ctx) error {
	req := new(currency.Settings)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.deps.Currency.Update(*req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(s.deps.Currency.Settings())
}
