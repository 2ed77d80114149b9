package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mrengworks/catalog/internal/catalog"
)

// Response is the envelope of every JSON answer that is not a plain list.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Fail answers status with {success:false, message}.
func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Response{Success: false, Message: msg})
}

// ValidateStruct runs v on s and turns the first failure into a catalog.ValidationError.
func ValidateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]

	var msg string

	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", strings.ToLower(fe.Field()), fe.Param())
	case "min", "gte":
		msg = fmt.Sprintf("%s must be at least %s", strings.ToLower(fe.Field()), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}

	return catalog.NewValidationError(msg)
}
