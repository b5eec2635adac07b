// Package register implements the self-service account registration
// endpoint.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/store"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
)

// Path is the path of the registration endpoint.
const Path = handler.APIPrefix + "/register"

var validate = validator.New()

// Service is the registration handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the registration handler.
var Handler = Service{}

type registerRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Name       string   `json:"name" validate:"required"`
	Password   string   `json:"password" validate:"required,min=6"`
	RoleIDs    []string `json:"role_ids"`
	Department string   `json:"department"`
}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Post(Path, s.Post)

	return nil
}

// Post creates a new account. Registration does not sign the account
// in; the new user goes through the regular sign-in flow.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(registerRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	roleIDs := req.RoleIDs
	if len(roleIDs) == 0 {
		roleIDs = []string{store.RoleViewerID}
	}

	user, err := s.deps.Auth.Users().Create(store.UserFields{
		Email:      req.Email,
		Name:       req.Name,
		RoleIDs:    roleIDs,
		Department: req.Department,
	})
	if err != nil {
		return handler.StoreError(c, err)
	}

	if err := s.deps.Auth.Users().SetPassword(user.Email, req.Password); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to store password")

		return handler.StoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}
