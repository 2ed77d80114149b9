package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/catalog"
)

// ErrorHandler maps errors returned by handlers to JSON responses.
// The underlying error is exposed to the client only in dev mode.
func ErrorHandler(devMode bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			ve *catalog.ValidationError
			fe *fiber.Error
		)

		switch {
		case errors.As(err, &ve):
			return Fail(c, fiber.StatusBadRequest, ve.Message)
		case errors.Is(err, catalog.ErrNotFound):
			return Fail(c, fiber.StatusNotFound, notFoundMessage(err))
		case errors.Is(err, catalog.ErrUnauthorized):
			return Fail(c, fiber.StatusUnauthorized, "Unauthorized")
		case errors.As(err, &fe):
			if fe.Code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}

			return Fail(c, fe.Code, fe.Message)
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")

		resp := Response{Success: false, Message: MsgInternal}
		if devMode {
			resp.Error = err.Error()
		}

		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

// notFoundMessage turns "product not found" into "Product not found".
func notFoundMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Not found"
	}

	return strings.ToUpper(msg[:1]) + msg[1:]
}
