// Package home serves the API banner at the site root.
package home

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/version"
	"github.com/mrengworks/catalog/internal/web/handler"
)

// Banner describes the API to clients asking the root path for JSON.
type Banner struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Service is the home handler service.
type Service struct {
	handler.Service
	banner Banner
}

// Handler is the home handler.
var Handler = Service{}

// Init registers GET / for JSON clients. Other clients fall through to the next GET / route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.banner = Banner{
		Message: cfg.Title + " API",
		Version: version.Version,
		Endpoints: map[string]string{
			"products": handler.APIPath + "/products",
			"admin":    handler.APIPath + "/admin",
			"settings": handler.APIPath + "/settings",
		},
	}

	app.Get(handler.RouterRootPath, s.Get)

	return nil
}

// Get answers with the banner when JSON is preferred over HTML.
func (s *Service) Get(c *fiber.Ctx) error {
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) != fiber.MIMEApplicationJSON {
		return c.Next()
	}

	return c.JSON(s.banner)
}
