package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LocalsClaims is the fiber locals key holding the *Claims of an authenticated request.
const LocalsClaims = "auth.claims"

const bearerPrefix = "Bearer "

// RequireBearer creates Fiber middleware that requires a valid bearer token.
func RequireBearer(tokens *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		raw := ""
		if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			raw = strings.TrimSpace(header[len(bearerPrefix):])
		}

		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No token provided",
			})
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Str("path", c.Path()).Msg("rejected bearer token")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
			})
		}

		c.Locals(LocalsClaims, claims)

		return c.Next()
	}
}

// ClaimsFromContext returns the claims stored by RequireBearer, or nil.
func ClaimsFromContext(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(LocalsClaims).(*Claims)
	return claims
}
