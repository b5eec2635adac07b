// Package daemon assembles the portal: it opens the storage backend,
// seeds first-start data and starts the web service plus background
// workers.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/storage"
	storagemysql "github.com/gofiber/storage/mysql/v2"
	storagepostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/config"
	"github.com/mushya-portal/mushya-portal/internal/currency"
	"github.com/mushya-portal/mushya-portal/internal/db"
	"github.com/mushya-portal/mushya-portal/internal/db/dsn"
	"github.com/mushya-portal/mushya-portal/internal/store"
	"github.com/mushya-portal/mushya-portal/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	cancel     context.CancelFunc
}

// Start starts the Daemon's web service and blocks until it stops.
func (d *Daemon) Start() error {
	defer d.cancel()

	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	st, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	kv := store.NewKV(st, cfg.Store.Namespace)

	if err := seed(kv); err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, st)
	if err != nil {
		return nil, err
	}

	// Converge currency settings written by other pods sharing the
	// store.
	ctx, cancel := context.WithCancel(context.Background())
	go webService.Currency().Watch(ctx, currency.DefaultWatchInterval)

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		cancel:     cancel,
	}, nil
}

// openStorage opens the key-value backend named by the configuration.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.DB.Driver {
	case "mysql":
		return storagemysql.New(storagemysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "portal_kv",
		}), nil
	case "postgres":
		return storagepostgres.New(storagepostgres.Config{
			ConnectionURI: dsn.CreatePostgres(cfg),
			Table:         "portal_kv",
		}), nil
	default:
		st, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}

		return st, nil
	}
}
