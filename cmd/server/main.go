package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hrms/docs" // swagger docs
	"hrms/internal/auth"
	"hrms/internal/cache"
	"hrms/internal/config"
	"hrms/internal/db"
	"hrms/internal/handler"
	"hrms/internal/logger"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/router"
	"hrms/internal/service"
)

// @title HRMS API
// @version 1.0
// @description Invitation-based onboarding and identity API with JWT authentication.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Service: "hrms", Level: cfg.LogLevel, Format: cfg.LogFormat})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, continuing without cache")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	invitationRepo := repository.NewInvitationRepository(gormDB)
	transactor := repository.NewTransactor(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	invitationService := service.NewInvitationService(transactor, invitationRepo, userRepo, cacheClient, cfg.FrontendURL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log, jwtService, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(userService),
		Invitations: handler.NewInvitationHandler(invitationService),
	})

	docs.SwaggerInfo.Host = cfg.SwaggerHost
	log.Info().Str("url", cfg.SwaggerURL()).Msg("swagger documentation available")

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server start")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func migrate(gormDB *gorm.DB, reset bool, log zerolog.Logger) error {
	// Children before parents so foreign keys do not block the drop.
	tables := []interface{}{
		&model.Invitation{},
		&model.User{},
	}

	if reset {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("drop table (may not exist)")
			}
		}
	}

	return gormDB.AutoMigrate(&model.User{}, &model.Invitation{})
}
