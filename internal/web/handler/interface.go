package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/upload"
)

// ErrNilDeps is returned by Init when app, cfg or deps is nil.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Products  catalog.ProductStore
	Settings  catalog.SettingStore
	Auth      *auth.Service
	Uploads   *upload.Storage
	Validator *validator.Validate
}

// Guard returns the bearer token middleware for mutating routes.
func (d *Deps) Guard() fiber.Handler {
	return auth.RequireBearer(d.Auth.Tokens())
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}
