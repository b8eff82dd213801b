package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/HosamGirgis55/Academix-sub001/internal/app/controllers"
	appMigrations "github.com/HosamGirgis55/Academix-sub001/internal/app/migrations"
	appRepos "github.com/HosamGirgis55/Academix-sub001/internal/app/repositories"
	appRoutes "github.com/HosamGirgis55/Academix-sub001/internal/app/routes"
	appServices "github.com/HosamGirgis55/Academix-sub001/internal/app/services"
	"github.com/HosamGirgis55/Academix-sub001/internal/config"
	"github.com/HosamGirgis55/Academix-sub001/internal/db"
	appMiddleware "github.com/HosamGirgis55/Academix-sub001/internal/middleware"
	pkgAuth "github.com/HosamGirgis55/Academix-sub001/internal/pkg/auth"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/i18n"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/logger"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/notification"
	"github.com/HosamGirgis55/Academix-sub001/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService              appServices.AuthService
	UserService              appServices.UserService
	SessionRequestService    appServices.SessionRequestService
	BookingService           appServices.BookingService
	AuthController           *appControllers.AuthController
	UserController           *appControllers.UserController
	SessionRequestController *appControllers.SessionRequestController
	BookingController        *appControllers.BookingController
	AuthMiddleware           *appMiddleware.AuthMiddleware
	Repos                    *appRepos.Repositories
	JWTService               *pkgAuth.JWTService
	Notifier                 *notification.PushService
	Translator               i18n.Translator
	Logger                   zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds development data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log but don't fail startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Notifier = notification.NewPushService(notification.Config{
		GatewayURL: cfg.Notification.GatewayURL,
		APIKey:     cfg.Notification.APIKey,
		Timeout:    config.ParseDuration(cfg.Notification.Timeout, 5*time.Second),
	}, lgr)

	translator, err := i18n.LoadCatalog(cfg.I18n.LocaleDir, cfg.I18n.DefaultLocale)
	if err != nil {
		lgr.Warn().Err(err).Str("locale", cfg.I18n.DefaultLocale).Msg("Could not load locale catalog, using identity translations")
		translator = i18n.NewCatalog()
	}
	deps.Translator = translator

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.BalanceRepository, lgr)
	deps.SessionRequestService = appServices.NewSessionRequestService(
		database,
		deps.Repos.SessionRequestRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.BookingService = appServices.NewBookingService(
		database,
		deps.Repos.SessionRequestRepository,
		deps.Repos.SessionRepository,
		deps.Repos.BalanceRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.SessionRequestController = appControllers.NewSessionRequestController(deps.SessionRequestService, deps.Translator)
	deps.BookingController = appControllers.NewBookingController(deps.BookingService, deps.Translator)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.SessionRequestController,
		deps.BookingController,
		deps.AuthMiddleware,
	)

	return router
}
