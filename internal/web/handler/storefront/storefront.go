// Package storefront renders the public product page.
package storefront

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/config"
	shape "github.com/mrengworks/catalog/internal/storefront"
	"github.com/mrengworks/catalog/internal/web/handler"
)

// Template is the name of the storefront view.
const Template = "storefront"

// Service is the storefront handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
	opts shape.Options
}

// Handler is the storefront handler.
var Handler = Service{}

// Init initializes the storefront handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg
	s.deps = deps
	// served from the same origin, image references stay relative
	s.opts = shape.NewOptions(cfg.Storefront, "")

	app.Get(handler.RouterRootPath, s.Get)

	return nil
}

// Get renders every product in store order together with the site settings.
// A failing store degrades to an empty page section, it does not fail the page.
func (s *Service) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	products, err := s.deps.Products.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("storefront: failed to list products")
	}

	settings, err := s.deps.Settings.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("storefront: failed to load settings")

		settings = map[catalog.SettingType]string{}
	}

	return c.Render(Template, fiber.Map{
		"Title":      s.cfg.Title,
		"Cards":      s.opts.Cards(products),
		"Address":    settings[catalog.SettingAddress],
		"Map":        settings[catalog.SettingMap],
		"About":      settings[catalog.SettingAbout],
		"Privacy":    settings[catalog.SettingPrivacy],
		"Disclaimer": settings[catalog.SettingDisclaimer],
	})
}
