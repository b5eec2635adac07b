// Package role implements the role administration endpoints.
package role

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

// Path is the base path of the role administration endpoints.
const Path = handler.APIPrefix + "/roles"

// PermissionsPath is the path of the permission catalog endpoint.
const PermissionsPath = handler.APIPrefix + "/permissions"

var validate = validator.New()

// Service is the role administration handler service.
type Service struct {
	deps *handler.Deps
}

// Handler is the role administration handler.
var Handler = Service{}

type createRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type updateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

// Init initializes the role administration handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Get(PermissionsPath, auth.RequirePermission(catalog.PermRolesView), s.Permissions)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequirePermission(catalog.PermRolesView), s.List)
		router.Post(handler.RootPath, auth.RequirePermission(catalog.PermRolesCreate), s.Create)
		router.Get("/:id", auth.RequirePermission(catalog.PermRolesView), s.Get)
		router.Put("/:id", auth.RequirePermission(catalog.PermRolesEdit), s.Update)
		router.Delete("/:id", auth.RequirePermission(catalog.PermRolesDelete), s.Delete)
	})

	return nil
}

// Permissions returns the catalog grouped by module, preserving the
// catalog's display order.
func (s *Service) Permissions(c *fiber.Ctx) error {
	grouped, order := catalog.ByModule()

	modules := make([]fiber.Map, 0, len(order))
	for _, module := range order {
		modules = append(modules, fiber.Map{
			"module":      module,
			"permissions": grouped[module],
		})
	}

	return c.JSON(modules)
}

// List returns every role, built-in roles included.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.deps.Auth.Roles().List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list roles")

		return handler.StoreError(c, err)
	}

	return c.JSON(roles)
}

// Get returns a single role by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	role, err := s.deps.Auth.Roles().Get(c.Params("id"))
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(role)
}

// Create adds a new role. Permission keys outside the catalog are
// rejected.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	role, err := s.deps.Auth.Roles().Create(req.Name, req.Description, req.Permissions)
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// Update applies a partial role update. A provided permission list
// replaces the previous one wholesale.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	role, err := s.deps.Auth.Roles().Update(c.Params("id"), store.RolePatch{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(role)
}

// Delete removes a role. The super admin role is protected and always
// refuses deletion.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.deps.Auth.Roles().Delete(c.Params("id")); err != nil {
		return handler.StoreError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
