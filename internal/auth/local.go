package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrengworks/catalog/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// dummyAdmin holds a hash checked for unknown usernames, so a wrong username
// costs the same argon2id work as a wrong password.
var dummyAdmin = sync.OnceValue(func() *models.Admin { //nolint:gochecknoglobals
	hash, err := models.HashPassword("catalog-unknown-user")
	if err != nil {
		log.Error().Err(err).Msg("failed to create dummy password hash")
	}

	return &models.Admin{Username: "-", Password: hash}
})

// checkDummy spends one password verification on the dummy hash.
var checkDummy = func(password string) { //nolint:gochecknoglobals
	dummyAdmin().VerifyPassword(password)
}

// Authenticate authenticates an admin against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := p.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		checkDummy(password)
		return nil, err
	}

	if err != nil {
		return nil, err
	}

	if !admin.Active {
		return nil, ErrUserAccountDisabled
	}

	if !admin.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return admin, nil
}

// GetByUsername retrieves an admin by username.
func (p *LocalProvider) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin

	err := p.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	return &admin, nil
}

// EnsureAdmin creates the configured admin if the admins table is empty.
// password may be plaintext or an argon2id hash.
func (p *LocalProvider) EnsureAdmin(ctx context.Context, username, password string) error {
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}

	if count > 0 {
		return nil
	}

	hash := password
	if !models.IsPasswordHash(password) {
		var err error

		hash, err = models.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	admin := models.Admin{
		Active:   true,
		Username: username,
		Password: hash,
	}

	if err := p.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Str("username", username).Msg("seeded admin account")

	return nil
}

// SetPassword replaces the password of username.
func (p *LocalProvider) SetPassword(ctx context.Context, username, password string) error {
	hash, err := models.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res := p.db.WithContext(ctx).Model(&models.Admin{}).
		Where("username = ?", username).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
