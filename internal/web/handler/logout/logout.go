// Package logout implements the sign-out endpoint.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
	"github.com/mushya-portal/mushya-portal/internal/web/session"
)

// Path is the path of the logout endpoint.
const Path = handler.APIPrefix + "/logout"

// Service is the logout handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Post(Path, s.Post)

	return nil
}

// Post drops the session and clears the cookie. Logging out without a
// session is a no-op that still succeeds.
func (s *Service) Post(c *fiber.Ctx) error {
	if gate := auth.GateFromCtx(c); gate != nil {
		if err := gate.Logout(); err != nil {
			log.Error().Err(err).Msg("Failed to drop session")

			return handler.Error(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	session.ClearCookie(c, s.deps.Cfg.DevMode)

	return c.SendStatus(fiber.StatusNoContent)
}
