// Package vault implements the password vault endpoints. Secrets are
// masked in listings; revealing one requires a fresh one-time code and
// stamps the entry's last-accessed time.
package vault

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

// Path is the base path of the vault endpoints.
const Path = handler.APIPrefix + "/vault"

var validate = validator.New()

// Service is the vault handler service.
type Service struct {
	deps  *handler.Deps
	vault *store.Vault
}

// Handler is the vault handler.
var Handler = Service{}

type createRequest struct {
	Title    string `json:"title" validate:"required"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
	Category string `json:"category"`
}

type revealRequest struct {
	Code string `json:"code" validate:"required"`
}

// Init initializes the vault handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	s.vault = store.NewVault(deps.KV)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequirePermission(catalog.PermVaultView), s.List)
		router.Post(handler.RootPath, auth.RequirePermission(catalog.PermVaultCreate), s.Create)
		router.Post("/:id/reveal", auth.RequirePermission(catalog.PermVaultReveal), s.Reveal)
		router.Delete("/:id", auth.RequirePermission(catalog.PermVaultCreate), s.Delete)
	})

	return nil
}

// List returns all vault entries with their secrets masked.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := s.vault.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list vault entries")

		return handler.StoreError(c, err)
	}

	for i := range entries {
		entries[i].Password = ""
	}

	return c.JSON(entries)
}

// Create stores a new vault entry attributed to the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	gate := auth.GateFromCtx(c)

	entry, err := s.vault.Create(store.VaultEntry{
		Title:     req.Title,
		Username:  req.Username,
		Password:  req.Password,
		URL:       req.URL,
		Notes:     req.Notes,
		Category:  req.Category,
		CreatedBy: gate.Principal().ID,
	})
	if err != nil {
		return handler.StoreError(c, err)
	}

	entry.Password = ""

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Reveal returns an entry including its secret after a fresh one-time
// code check, and stamps the entry's last-accessed time.
func (s *Service) Reveal(c *fiber.Ctx) error {
	req := new(revealRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := s.deps.Auth.VerifyCode(c.UserContext(), req.Code); err != nil {
		if errors.Is(err, auth.ErrInvalidCode) {
			return handler.Error(c, fiber.StatusUnauthorized, "invalid one-time code")
		}

		log.Error().Err(err).Msg("Code verification failed")

		return handler.Error(c, fiber.StatusInternalServerError, "internal server error")
	}

	entry, err := s.vault.TouchAccessed(c.Params("id"))
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(entry)
}

// Delete removes a vault entry.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.vault.Delete(c.Params("id")); err != nil {
		return handler.StoreError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
