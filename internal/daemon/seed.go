package daemon

import (
	"context"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/config"
)

// seed creates the configured admin if the admins table is still empty.
func seed(ctx context.Context, cfg *config.Config, local *auth.LocalProvider) error {
	if cfg.Auth.AdminUsername == "" {
		return nil
	}

	return local.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
}
