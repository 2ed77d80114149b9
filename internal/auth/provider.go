package auth

import (
	"context"

	"github.com/mrengworks/catalog/internal/db/models"
)

// Provider checks a username and password pair.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (*models.Admin, error)
}
