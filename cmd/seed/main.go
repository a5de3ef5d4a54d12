package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms/internal/config"
	"hrms/internal/db"
	"hrms/internal/logger"
	"hrms/internal/model"
	"hrms/internal/repository"
)

const bcryptCost = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Service: "hrms-seed", Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.Seed.Password == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD is required")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close(gormDB)

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Invitation{}); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx := log.WithContext(context.Background())
	user, created, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), cfg.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("seed administrator")
	}

	log.Info().
		Uint("user_id", user.ID).
		Str("email", user.Email).
		Bool("created", created).
		Msg("seed completed")
}

// seedAdmin creates the bootstrap administrator or resets an existing one's
// password and role.
func seedAdmin(ctx context.Context, repo repository.UserRepository, seed config.SeedConfig) (*model.User, bool, error) {
	email := model.NormalizeEmail(seed.Email)
	if email == "" {
		return nil, false, errors.New("seed email is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find %s: %w", email, err)
	}

	if existing != nil {
		existing.PasswordHash = string(hash)
		existing.Role = model.RoleAdmin
		if seed.Name != "" {
			existing.Name = seed.Name
		}
		if err := repo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("update %s: %w", email, err)
		}
		return existing, false, nil
	}

	name := seed.Name
	if name == "" {
		name = model.DefaultName(email)
	}
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create %s: %w", email, err)
	}
	return user, true, nil
}
