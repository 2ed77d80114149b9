package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
)

// User is the admin descriptor returned to the client after login.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service checks credentials and issues bearer tokens.
type Service struct {
	provider Provider
	tokens   *TokenIssuer
}

// NewService creates a new auth service.
func NewService(provider Provider, tokens *TokenIssuer) *Service {
	return &Service{provider: provider, tokens: tokens}
}

// Tokens returns the issuer used to sign and verify tokens.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Login authenticates username and returns a token on success.
// Every credential failure is reported as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.provider.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) ||
			errors.Is(err, ErrUserAccountDisabled) {
			log.Warn().Err(err).Str("username", username).Msg("login failed")
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}

	log.Info().Str("username", admin.Username).Msg("login succeeded")

	return &LoginResult{
		Token: token,
		User: User{
			ID:       strconv.FormatUint(admin.ID, 10),
			Username: admin.Username,
		},
	}, nil
}
