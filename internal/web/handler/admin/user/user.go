// Package user implements the user administration endpoints.
package user

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/catalog"
	"github.com/mushya-portal/mushya-portal/internal/store"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
)

// Path is the base path of the user administration endpoints.
const Path = handler.APIPrefix + "/users"

var validate = validator.New()

// Service is the user administration handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the user administration handler.
var Handler = Service{}

type createRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Name       string   `json:"name" validate:"required"`
	Avatar     string   `json:"avatar"`
	RoleIDs    []string `json:"role_ids"`
	Department string   `json:"department"`
	Password   string   `json:"password" validate:"omitempty,min=6"`
}

type updateRequest struct {
	Email      *string       `json:"email" validate:"omitempty,email"`
	Name       *string       `json:"name"`
	Avatar     *string       `json:"avatar"`
	RoleIDs    *[]string     `json:"role_ids"`
	Department *string       `json:"department"`
	Status     *store.Status `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// Init initializes the user administration handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequirePermission(catalog.PermUsersView), s.List)
		router.Post(handler.RootPath, auth.RequirePermission(catalog.PermUsersCreate), s.Create)
		router.Get("/:id", auth.RequirePermission(catalog.PermUsersView), s.Get)
		router.Put("/:id", auth.RequirePermission(catalog.PermUsersEdit), s.Update)
		router.Delete("/:id", auth.RequirePermission(catalog.PermUsersDelete), s.Delete)
	})

	return nil
}

// List returns every account, seed accounts included.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.deps.Auth.Users().List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")

		return handler.StoreError(c, err)
	}

	return c.JSON(users)
}

// Get returns a single account by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	user, err := s.deps.Auth.Users().Get(c.Params("id"))
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(user)
}

// Create registers a new account, optionally with an initial password.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := s.deps.Auth.Users().Create(store.UserFields{
		Email:      req.Email,
		Name:       req.Name,
		Avatar:     req.Avatar,
		RoleIDs:    req.RoleIDs,
		Department: req.Department,
	})
	if err != nil {
		return handler.StoreError(c, err)
	}

	if req.Password != "" {
		if err := s.deps.Auth.Users().SetPassword(user.Email, req.Password); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to set initial password")

			return handler.StoreError(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update applies a partial account update.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := s.deps.Auth.Users().Update(c.Params("id"), store.UserPatch{
		Email:      req.Email,
		Name:       req.Name,
		Avatar:     req.Avatar,
		RoleIDs:    req.RoleIDs,
		Department: req.Department,
		Status:     req.Status,
	})
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(user)
}

// Delete removes an account.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.deps.Auth.Users().Delete(c.Params("id")); err != nil {
		return handler.StoreError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
