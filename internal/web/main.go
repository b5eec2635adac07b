// Package web wires the JSON API: the fiber app, its middleware chain
// and every route handler.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/config"
	"github.com/mushya-portal/mushya-portal/internal/currency"
	fiberlogger "github.com/mushya-portal/mushya-portal/internal/logger/adapter/fiber"
	"github.com/mushya-portal/mushya-portal/internal/store"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/admin/role"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/admin/user"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/dashboard"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/department"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/login"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/logout"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/register"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/settings"
	"github.com/mushya-portal/mushya-portal/internal/web/handler/vault"
)

// CheckAlivePath is the liveness endpoint used by load balancers.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	currency     *currency.Manager
	fastShutDown bool
	alive        atomic.Bool
}

// Currency exposes the currency manager serving the settings endpoints,
// so the daemon can run its reconciler against the same instance.
func (s *Service) Currency() *currency.Manager {
	return s.currency
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the server down
// gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: fail the liveness check
	// first so the LB removes this pod from active targets.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration and
// storage backend.
func New(cfg *config.Config, st storage.Storage) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if st == nil {
		panic("storage cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	kv := store.NewKV(st, cfg.Store.Namespace)

	authService, err := auth.NewService(
		store.NewUsers(kv),
		store.NewRoles(kv),
		auth.Options{
			SeedPassword: cfg.Auth.SeedPassword,
			Code:         cfg.Auth.Code,
			TOTPSecret:   cfg.Auth.TOTPSecret,
			LoginDelay:   cfg.Auth.LoginDelay,
			VerifyDelay:  cfg.Auth.VerifyDelay,
		},
	)
	if err != nil {
		return nil, err
	}

	currencyManager := currency.NewManager(kv)
	if err := currencyManager.Load(); err != nil {
		return nil, err
	}

	// session gate middleware
	app.Use(auth.Middleware(authService, kv))

	service := &Service{
		cfg:      cfg,
		App:      app,
		currency: currencyManager,
	}
	service.alive.Store(true)

	service.App.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	deps := &handler.Deps{
		Cfg:      cfg,
		KV:       kv,
		Auth:     authService,
		Currency: currencyManager,
	}

	handlers := map[string]handler.Service{
		"login":      &login.Handler,
		"logout":     &logout.Handler,
		"register":   &register.Handler,
		"dashboard":  &dashboard.Handler,
		"user":       &user.Handler,
		"role":       &role.Handler,
		"department": &department.Handler,
		"vault":      &vault.Handler,
		"settings":   &settings.Handler,
	}

	for name, h := range handlers {
		if err := h.Init(app, deps); err != nil {
			log.Error().Err(err).Str("handler", name).Msg("Failed to init handler")

			return nil, err
		}
	}

	return service, nil
}
