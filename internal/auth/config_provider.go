package auth

import (
	"context"
	"crypto/subtle"

	"github.com/mrengworks/catalog/internal/db/models"
)

// ConfigProvider authenticates the single admin named in the configuration.
type ConfigProvider struct {
	admin models.Admin
	plain bool
}

// NewConfigProvider returns a ConfigProvider. password may be plaintext or an argon2id hash.
func NewConfigProvider(username, password string) *ConfigProvider {
	return &ConfigProvider{
		admin: models.Admin{ID: 1, Active: true, Username: username, Password: password},
		plain: !models.IsPasswordHash(password),
	}
}

// Authenticate implements Provider.
func (p *ConfigProvider) Authenticate(_ context.Context, username, password string) (*models.Admin, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(p.admin.Username)) != 1 {
		if !p.plain {
			checkDummy(password)
		}

		return nil, ErrUserNotFound
	}

	if p.plain {
		if subtle.ConstantTimeCompare([]byte(password), []byte(p.admin.Password)) != 1 {
			return nil, ErrInvalidPassword
		}
	} else if !p.admin.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	admin := p.admin

	return &admin, nil
}
