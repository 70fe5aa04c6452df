// Package seed creates the default data a fresh installation needs.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/config"
	"github.com/santoso/presensia/internal/pkg/auth"
)

const (
	defaultAdminUsername = "admin"
	adminPasswordEnv     = "SEED_ADMIN_PASSWORD"
)

// CreateDefaultData seeds the initial administrator account when the user
// table is empty. The password comes from SEED_ADMIN_PASSWORD, falling
// back to a development default.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	count, err := userRepo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := config.GetEnv(adminPasswordEnv, "presensia-admin")
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &models.User{
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		RoleType:     models.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	lgr.Info().Str("username", defaultAdminUsername).Msg("Default admin account created")
	return nil
}
