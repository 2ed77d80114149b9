// Package login provides the admin login and token check endpoints.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/web/handler"
)

const (
	// Path is the path of the admin API.
	Path = handler.APIPath + "/admin"
	// LoginPath is the login endpoint below Path.
	LoginPath = "/login"
	// VerifyPath is the token check endpoint below Path.
	VerifyPath = "/verify"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,max=255"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler. Extra handlers, e.g. a rate limiter, run before Post.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps, before ...fiber.Handler) error {
	if app == nil || cfg == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.cfg = cfg
	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Post(LoginPath, append(before, s.Post)...)
		router.Get(VerifyPath, deps.Guard(), s.Verify)
	})

	return nil
}

// Post checks the credentials and answers with a bearer token.
func (s *Service) Post(c *fiber.Ctx) error {
	creds := new(Credentials)

	if err := c.BodyParser(creds); err != nil {
		return ErrInvalidFormData
	}

	if err := s.deps.Validator.Struct(creds); err != nil {
		return ErrInvalidFormData
	}

	res, err := s.deps.Auth.Login(c.UserContext(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn().Str("username", creds.Username).Str("ip", c.IP()).Msg("invalid login attempt")
			return handler.Fail(c, fiber.StatusUnauthorized, MsgInvalidCredentials)
		}

		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

// Verify answers whether the bearer token is still accepted.
func (s *Service) Verify(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return handler.Fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": auth.User{
			ID:       claims.Subject,
			Username: claims.Username,
		},
	})
}
