package bootstrap

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/meritbook/meritbook/internal/app/controllers"
	appMigrations "github.com/meritbook/meritbook/internal/app/migrations"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	appRepos "github.com/meritbook/meritbook/internal/app/repositories"
	appRoutes "github.com/meritbook/meritbook/internal/app/routes"
	appServices "github.com/meritbook/meritbook/internal/app/services"
	"github.com/meritbook/meritbook/internal/config"
	"github.com/meritbook/meritbook/internal/db"
	appMiddleware "github.com/meritbook/meritbook/internal/middleware"
	"github.com/meritbook/meritbook/internal/pkg/filestorage"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	AchievementService appServices.AchievementService
	ReportService      appServices.ReportService
	FederatedService   appServices.FederatedService

	AuthController        *appControllers.AuthController
	AchievementController *appControllers.AchievementController
	DashboardController   *appControllers.DashboardController
	FederatedController   *appControllers.FederatedController

	Repos       *appRepos.Repositories
	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// A missing .env file is fine; real deployments configure the
	// environment directly.
	_ = godotenv.Load()

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

// SetupDatabase establishes the database connection and brings the schema up
// to date, including the additive teacher-column upgrade for databases created
// before ownership tracking existed.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := migrator.EnsureTeacherColumn(ctx); err != nil {
		lgr.Error().Err(err).Msg("Schema upgrade error")
		dbPool.Close()
		return nil, fmt.Errorf("schema upgrade failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.MaxSize, cfg.AllowedExtensions())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.StudentRepository,
		deps.Repos.TeacherRepository,
		cfg.Registration.TeacherCode,
	)
	deps.AchievementService = appServices.NewAchievementService(
		deps.Repos.StudentRepository,
		deps.Repos.AchievementRepository,
		deps.FileStorage,
	)
	deps.ReportService = appServices.NewReportService(deps.Repos.AchievementRepository)
	deps.FederatedService = appServices.NewFederatedService(deps.Repos.StudentRepository)

	firebase := firebaseConfig(cfg)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, firebase)
	deps.AchievementController = appControllers.NewAchievementController(deps.AchievementService, deps.ReportService, cfg.Upload.MaxSize)
	deps.DashboardController = appControllers.NewDashboardController(deps.ReportService)
	deps.FederatedController = appControllers.NewFederatedController(deps.FederatedService, firebase)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(sessions.Sessions(cfg.Session.CookieName, sessionStore(cfg, lgr)))

	router.LoadHTMLGlob(filepath.Join("templates", "*.html"))

	appRoutes.Register(router, appRoutes.Controllers{
		Auth:        deps.AuthController,
		Achievement: deps.AchievementController,
		Dashboard:   deps.DashboardController,
		Federated:   deps.FederatedController,
	})

	return router
}

// sessionStore builds the in-memory session backend. The browser only ever
// carries an opaque token; all session state stays server-side and dies with
// the process.
func sessionStore(cfg *config.Config, lgr zerolog.Logger) sessions.Store {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		// Development convenience only; validateConfig rejects this in
		// production mode.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			lgr.Fatal().Err(err).Msg("Failed to generate session secret")
		}
		lgr.Warn().Msg("SESSION_SECRET not set, using a random per-process secret")
	}

	store := memstore.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	return store
}

// firebaseConfig maps the configured provider settings onto the response
// served to browsers.
func firebaseConfig(cfg *config.Config) dto.FirebaseConfigResponse {
	return dto.FirebaseConfigResponse{
		APIKey:            cfg.Firebase.APIKey,
		AuthDomain:        cfg.Firebase.AuthDomain,
		ProjectID:         cfg.Firebase.ProjectID,
		StorageBucket:     cfg.Firebase.StorageBucket,
		MessagingSenderID: cfg.Firebase.MessagingSenderID,
		AppID:             cfg.Firebase.AppID,
	}
}
