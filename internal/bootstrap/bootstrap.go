package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamzahassan/campuscore/internal/app/controllers"
	"github.com/hamzahassan/campuscore/internal/app/migrations"
	"github.com/hamzahassan/campuscore/internal/app/repositories"
	"github.com/hamzahassan/campuscore/internal/app/routes"
	"github.com/hamzahassan/campuscore/internal/app/services"
	"github.com/hamzahassan/campuscore/internal/config"
	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/middleware"
	"github.com/hamzahassan/campuscore/internal/pkg/auth"
	"github.com/hamzahassan/campuscore/internal/pkg/email"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/pkg/signer"
	"github.com/hamzahassan/campuscore/internal/seed"
)

// Dependencies holds the wired application graph.
type Dependencies struct {
	Config   *config.Config
	Database *db.PostgresDB
	Repos    *repositories.Repositories
	Services *services.Services

	AuthController        *controllers.AuthController
	ApplicationController *controllers.ApplicationController
	GeographyController   *controllers.GeographyController
	SessionController     *controllers.SessionController
	AssignmentController  *controllers.AssignmentController
	GroupController       *controllers.GroupController
	AuthMiddleware        *middleware.AuthMiddleware

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, migrates and seeds the database.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, "migrations"); err != nil {
		database.Close()
		return nil, err
	}
	if err := seed.Seed(ctx, database.Pool); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// BuildDependencies wires repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	repos := repositories.NewRepositories(database.Pool)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  parseDuration(cfg.JWT.AccessTokenExpiration, 15*time.Minute, lgr),
		RefreshTokenExp: parseDuration(cfg.JWT.RefreshTokenExpiration, 7*24*time.Hour, lgr),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	tokenSigner := signer.New([]byte(cfg.JWT.Secret))
	mailer := email.NewService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Frontend.BaseURL,
	}, lgr)

	svcs := services.NewServices(database, repos, jwtService, tokenSigner, mailer)

	return &Dependencies{
		Config:   cfg,
		Database: database,
		Repos:    repos,
		Services: svcs,

		AuthController:        controllers.NewAuthController(svcs.Auth, svcs.Verification, svcs.Application),
		ApplicationController: controllers.NewApplicationController(svcs.Application),
		GeographyController:   controllers.NewGeographyController(svcs.Geography),
		SessionController:     controllers.NewSessionController(svcs.Session),
		AssignmentController:  controllers.NewAssignmentController(svcs.Assignment, svcs.Schedule),
		GroupController:       controllers.NewGroupController(svcs.AccessControl),
		AuthMiddleware:        middleware.NewAuthMiddleware(jwtService),

		Logger: lgr,
	}
}

func parseDuration(value string, fallback time.Duration, lgr zerolog.Logger) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		lgr.Warn().Str("value", value).Dur("fallback", fallback).Msg("Invalid duration in config, using fallback")
		return fallback
	}
	return d
}

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(deps *Dependencies) *gin.Engine {
	if strings.ToLower(deps.Config.Server.Mode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	routes.SetupRouter(
		router,
		deps.AuthController,
		deps.ApplicationController,
		deps.GeographyController,
		deps.SessionController,
		deps.AssignmentController,
		deps.GroupController,
		deps.AuthMiddleware,
	)
	return router
}
