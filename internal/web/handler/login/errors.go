package login

import "github.com/mrengworks/catalog/internal/catalog"

var (
	// ErrInvalidFormData is returned when the submitted login body cannot be parsed
	// or fails validation.
	ErrInvalidFormData = catalog.NewValidationError("Username and password are required")
)

// MsgInvalidCredentials is the single message for every failed login.
const MsgInvalidCredentials = "Invalid credentials"
