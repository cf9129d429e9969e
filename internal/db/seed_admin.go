package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/geocoder89/shopapi/internal/security"
)

type AdminSeeder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
}

// EnsureAdminUser creates the bootstrap admin from config. Registration only ever
// creates plain users, so this is the way the first admin comes to exist.
// It returns created=false when seeding is disabled or the account already exists.
func EnsureAdminUser(ctx context.Context, users AdminSeeder, cfg config.Config) (created bool, err error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	email := user.NormalizeEmail(cfg.AdminEmail)

	// check if the user exists
	_, err = users.GetByEmail(ctx, email)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	_, err = users.Create(ctx, email, hash, cfg.AdminName, user.RoleAdmin)

	if errors.Is(err, user.ErrEmailTaken) {
		// another instance won the race
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	return true, nil
}
