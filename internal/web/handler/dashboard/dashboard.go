// Package dashboard implements the principal and dashboard endpoints.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/catalog"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
	"github.com/mushya-portal/mushya-portal/internal/web/navigation"
)

const (
	// MePath is the path of the current-principal endpoint.
	MePath = handler.APIPrefix + "/me"

	// Path is the path of the dashboard endpoint.
	Path = handler.APIPrefix + "/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Get(MePath, auth.RequireAuthenticated(), s.Me)
	app.Get(Path, auth.RequirePermission(catalog.PermDashboardView), s.Get)

	return nil
}

// Me returns the authenticated principal, its effective permission set
// and the navigation a client should render for it. When the request
// names the page it is on via the path query parameter, the response
// also carries that page's breadcrumb context, derived from the
// resolved tree so it never describes a page the principal cannot see.
func (s *Service) Me(c *fiber.Ctx) error {
	gate := auth.GateFromCtx(c)
	resolved := navigation.Resolve(navigation.DefaultTree(), gate.Can)

	payload := fiber.Map{
		"state":       string(gate.State()),
		"user":        gate.Principal(),
		"permissions": gate.Permissions(),
		"navigation":  resolved,
	}

	if navCtx := navigation.ContextFor(resolved, c.Query("path")); navCtx != nil {
		payload["context"] = navCtx
	}

	return c.JSON(payload)
}

// Get returns the dashboard counters.
func (s *Service) Get(c *fiber.Ctx) error {
	users, err := s.deps.Auth.Users().List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")

		return handler.StoreError(c, err)
	}

	roles, err := s.deps.Auth.Roles().List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list roles")

		return handler.StoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_count":       len(users),
		"role_count":       len(roles),
		"permission_count": len(catalog.List()),
		"currency":         s.deps.Currency.Settings(),
	})
}
