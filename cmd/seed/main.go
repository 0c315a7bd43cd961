package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/placement-portal/config"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/domain/repository"
	pginfra "github.com/oksasatya/placement-portal/internal/infrastructure/postgres"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

// seed bootstraps the first admin account. Running it again leaves an
// existing account untouched.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Minute)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	created, err := seedAdmin(ctx, pginfra.NewStore(pool), cfg, time.Now())
	if err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	fields := logrus.Fields{"email": entity.NormalizeEmail(cfg.AdminEmail)}
	if !created {
		logger.WithFields(fields).Info("admin already exists; nothing to do")
		return
	}
	logger.WithFields(fields).Info("admin account created")
}

func seedAdmin(ctx context.Context, store repository.Store, cfg *config.Config, now time.Time) (bool, error) {
	email := entity.NormalizeEmail(cfg.AdminEmail)
	existing, err := store.Identities().GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != entity.RoleAdmin {
			return false, errors.New("an account with the admin email exists with role " + string(existing.Role))
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := helpers.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}
	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}
	u := &entity.Identity{Name: name, Email: email, PasswordHash: hash, Role: entity.RoleAdmin, IsActive: true}
	u.MarkVerified(nil, now)
	if err := store.Identities().Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
