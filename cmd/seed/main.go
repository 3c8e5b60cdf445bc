package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// seed creates the first ADMIN_ROLE account. User creation over HTTP is
// admin-only, so a fresh database needs one out of band.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	name := envOr("SEED_ADMIN_NAME", "Administrator")
	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	users := pginfra.NewUserRepository(pool)

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		logger.WithField("user_id", existing.ID).Infof("%s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("lookup admin: %v", err)
	}

	hash, err := helpers.NewHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	token, err := helpers.NewVerificationToken()
	if err != nil {
		log.Fatalf("failed to generate verification token: %v", err)
	}

	u := entity.NewUser(name, email, hash, token)
	u.Role = entity.RoleAdmin
	u.Verified = true
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithField("user_id", u.ID).Infof("seeded admin %s", email)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
