package auth

import "errors"

var (
	// ErrInvalidCredentials is returned to the client for any failed login.
	// The cause (unknown user, wrong password, disabled account) is only logged.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled admin account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when an admin cannot be found in the credential source.
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenMissing is returned when a request carries no bearer token.
	ErrTokenMissing = errors.New("no token provided")

	// ErrTokenInvalid is returned when the token signature, issuer or expiry does not check out.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrEmptySecret is returned when a token issuer is built without a signing secret.
	ErrEmptySecret = errors.New("token secret is empty")
)
