package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Admin is the account allowed to manage the catalog. There is a single role.
type Admin struct {
	ID        uint64 `gorm:"primaryKey"`
	Active    bool
	Username  string `gorm:"unique;size:100;not null"`
	Password  string `gorm:"size:255"` // argon2id hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Admin model.
func (Admin) TableName() string {
	return "admins"
}

// IsPasswordHash reports whether s already is an argon2id hash.
func IsPasswordHash(s string) bool {
	return strings.HasPrefix(s, "$argon2id$")
}

// HashPassword hashes a plaintext password with the default Argon2id parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password against the stored hash in constant time.
func (a *Admin) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, a.Password)
	if err != nil {
		log.Error().Err(err).Str("username", a.Username).Msg("failed to verify password")
		return false
	}

	return match
}
