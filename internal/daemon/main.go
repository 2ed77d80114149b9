// Package daemon wires the stores, the auth service and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db"
	"github.com/mrengworks/catalog/internal/db/controller/product"
	"github.com/mrengworks/catalog/internal/db/controller/setting"
	"github.com/mrengworks/catalog/internal/db/docstore"
	"github.com/mrengworks/catalog/internal/upload"
	"github.com/mrengworks/catalog/internal/web"
	"github.com/mrengworks/catalog/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	cfg        *config.Config
	closers    []func(context.Context) error
}

// Start serves HTTP until SIGINT or SIGTERM, then releases the stores.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.Close(context.Background())
}

// Close releases the database connections.
func (d *Daemon) Close(ctx context.Context) error {
	var firstErr error

	for _, c := range d.closers {
		if err := c(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Handler returns the web service, mainly for tests.
func (d *Daemon) Handler() *web.Service {
	return d.webService
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	d := &Daemon{cfg: cfg}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	uploads, err := upload.New(cfg.Upload)
	if err != nil {
		return nil, err
	}

	deps := &handler.Deps{
		Uploads:   uploads,
		Validator: validator.New(),
	}

	var provider auth.Provider

	if cfg.DB.Engine == config.EngineMongoDB {
		client, err := docstore.Connect(ctx, cfg.DB.URI, cfg.DB.Name)
		if err != nil {
			return nil, err
		}

		d.closers = append(d.closers, client.Close)

		deps.Products = client.Products()
		deps.Settings = client.Settings()
		provider = auth.NewConfigProvider(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	} else {
		gdb, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}

		d.closers = append(d.closers, func(context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}

			return sqlDB.Close()
		})

		local := auth.NewLocalProvider(gdb)
		if err = seed(ctx, cfg, local); err != nil {
			return nil, err
		}

		deps.Products = product.NewStore(gdb)
		deps.Settings = setting.NewStore(gdb)
		provider = local
	}

	deps.Auth = auth.NewService(provider, tokens)

	d.webService, err = web.New(cfg, deps)
	if err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.Engine).Str("uploads", uploads.Dir()).Msg("daemon initialised")

	return d, nil
}
