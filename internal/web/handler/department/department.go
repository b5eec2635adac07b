// Package department implements the department management endpoints.
package department

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

// Path is the base path of the department endpoints.
const Path = handler.APIPrefix + "/departments"

var validate = validator.New()

// Service is the department handler service.
type Service struct {
	deps        *handler.Deps
	departments *store.Departments
}

// Handler is the department handler.
var Handler = Service{}

type departmentRequest struct {
	Name string `json:"name" validate:"required"`
}

// Init initializes the department handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	s.departments = store.NewDepartments(deps.KV)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequirePermission(catalog.PermDepartmentsView), s.List)
		router.Post(handler.RootPath, auth.RequirePermission(catalog.PermDepartmentsManage), s.Create)
		router.Put("/:id", auth.RequirePermission(catalog.PermDepartmentsManage), s.Update)
		router.Delete("/:id", auth.RequirePermission(catalog.PermDepartmentsManage), s.Delete)
	})

	return nil
}

// List returns all departments.
func (s *Service) List(c *fiber.Ctx) error {
	departments, err := s.departments.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list departments")

		return handler.StoreError(c, err)
	}

	return c.JSON(departments)
}

// Create adds a department.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(departmentRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	dept, err := s.departments.Create(req.Name)
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dept)
}

// Update renames a department.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(departmentRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	dept, err := s.departments.Update(c.Params("id"), req.Name)
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(dept)
}

// Delete removes a department.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.departments.Delete(c.Params("id")); err != nil {
		return handler.StoreError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
