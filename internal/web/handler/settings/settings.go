// Package settings provides the site settings HTTP API.
package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/web/handler"
)

const (
	// Path is the path of the settings API.
	Path = handler.APIPath + "/settings"

	typeParam = "type"
)

// ErrInvalidType is returned for a type outside the fixed set.
var ErrInvalidType = catalog.NewValidationError("Invalid setting type")

// Body is the update request body.
type Body struct {
	Content string `json:"content" form:"content" validate:"max=65535"`
}

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg
	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Put("/:"+typeParam, deps.Guard(), s.Put)
	})

	return nil
}

// List returns all stored settings keyed by type.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := s.deps.Settings.All(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    all,
	})
}

// Put creates or overwrites one setting.
func (s *Service) Put(c *fiber.Ctx) error {
	t := catalog.SettingType(c.Params(typeParam))
	if !t.Valid() {
		return ErrInvalidType
	}

	body := new(Body)
	if err := c.BodyParser(body); err != nil {
		return catalog.NewValidationError("Invalid request body")
	}

	if err := handler.ValidateStruct(s.deps.Validator, body); err != nil {
		return err
	}

	if err := s.deps.Settings.Set(c.UserContext(), t, body.Content); err != nil {
		return err
	}

	log.Info().Str("type", string(t)).Int("length", len(body.Content)).Msg("setting updated")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Setting updated",
		"data": fiber.Map{
			"type":    t,
			"content": body.Content,
		},
	})
}
