// Package login implements the two step sign-in endpoints.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
	"github.com/mushya-portal/mushya-portal/internal/web/navigation"
	"github.com/mushya-portal/mushya-portal/internal/web/session"
)

const (
	// Path is the path of the login endpoint.
	Path = handler.APIPrefix + "/login"

	// VerifyPath is the path of the code verification endpoint.
	VerifyPath = Path + "/verify"
)

// Service is the login handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Post(Path, s.Post)
	app.Post(VerifyPath, s.Verify)

	return nil
}

// Post handles the password step. On success the session moves to the
// awaiting-code state and the session cookie is set.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	// Every sign-in gets a fresh session ID; an ID presented before
	// authentication is never carried across it.
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate session ID")

		return handler.Error(c, fiber.StatusInternalServerError, "internal server error")
	}

	if previousID := c.Cookies(session.CookieName); previousID != "" {
		if err := s.deps.KV.Delete(auth.SessionKey(previousID)); err != nil {
			log.Warn().Err(err).Msg("Failed to drop previous session record")
		}
	}

	gate := auth.NewGate(s.deps.Auth, s.deps.KV, auth.SessionKey(sessionID))

	ok, err := gate.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("Login failed")

		return handler.Error(c, fiber.StatusInternalServerError, "internal server error")
	}

	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	session.SetCookie(c, sessionID, s.deps.Cfg.Webserver.Session.ExpiryTime, s.deps.Cfg.DevMode)

	return c.JSON(fiber.Map{"state": string(auth.StateAwaitingCode)})
}

// Verify handles the code step. On success the response carries the
// principal, the effective permission set and the resolved navigation
// tree.
func (s *Service) Verify(c *fiber.Ctx) error {
	req := new(verifyRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	gate := auth.GateFromCtx(c)
	if gate == nil || gate.State() != auth.StateAwaitingCode {
		return handler.Error(c, fiber.StatusUnauthorized, "no sign-in in progress")
	}

	ok, err := gate.VerifyCode(c.UserContext(), req.Code)
	if err != nil {
		log.Error().Err(err).Msg("Code verification failed")

		return handler.Error(c, fiber.StatusInternalServerError, "internal server error")
	}

	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, "invalid one-time code")
	}

	return c.JSON(fiber.Map{
		"state":       string(auth.StateAuthenticated),
		"user":        gate.Principal(),
		"permissions": gate.Permissions(),
		"navigation":  navigation.Resolve(navigation.DefaultTree(), gate.Can),
	})
}
