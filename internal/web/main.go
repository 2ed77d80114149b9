package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/config"
	fiberlogger "github.com/mrengworks/catalog/internal/logger/adapter/fiber"
	"github.com/mrengworks/catalog/internal/web/handler"
	"github.com/mrengworks/catalog/internal/web/handler/home"
	"github.com/mrengworks/catalog/internal/web/handler/login"
	"github.com/mrengworks/catalog/internal/web/handler/product"
	"github.com/mrengworks/catalog/internal/web/handler/settings"
	"github.com/mrengworks/catalog/internal/web/handler/storefront"
)

const (
	// HealthPath answers 200 while the service accepts traffic and 503 during shutdown.
	HealthPath = "/healthz"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	deps         *handler.Deps
	storage      fiber.Storage
}

// Start starts the web service on the given address and blocks until it stops.
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

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so the health check returns 503.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this instance from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		if s.storage != nil {
			if err := s.storage.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close limiter storage")
			}
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps == nil {
		panic("deps cannot be nil")
	}

	templateEngine := html.NewFileSystem(templatesFS(), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   handler.ErrorHandler(cfg.DevMode),
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		deps:         deps,
		fastShutDown: cfg.DevMode,
		storage:      newLimiterStorage(cfg),
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(fiberrecover.New(fiberrecover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:         cfg.Log,
		HealthCheckURI: HealthPath,
	}))

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	if len(cfg.Webserver.CORSOrigins) > 0 {
		origins := strings.Join(cfg.Webserver.CORSOrigins, ",")

		app.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: !strings.Contains(origins, "*"),
		}))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(assets),
				PathPrefix: "static",
			},
		),
	)

	// uploaded product images
	app.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir, fiber.Static{
		ByteRange: true,
		MaxAge:    3600, //nolint:mnd
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		if !service.Alive() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	// home must be registered before storefront, it falls through for HTML clients
	for _, h := range []handler.Service{&home.Handler, &storefront.Handler, &product.Handler, &settings.Handler} {
		if err := h.Init(app, cfg, deps); err != nil {
			return nil, err
		}
	}

	var beforeLogin []fiber.Handler
	if lim := newLoginLimiter(cfg, service.storage); lim != nil {
		beforeLogin = append(beforeLogin, lim)
	}

	if err := login.Handler.Init(app, cfg, deps, beforeLogin...); err != nil {
		return nil, err
	}

	// unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return handler.Fail(c, fiber.StatusNotFound, "Route not found")
	})

	return service, nil
}
