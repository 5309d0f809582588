package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/analytics"
	"jobtrack-backend/internal/applications"
	googleauth "jobtrack-backend/internal/auth"
	"jobtrack-backend/internal/migration"
	"jobtrack-backend/internal/reminders"
	"jobtrack-backend/internal/shared/config"
	"jobtrack-backend/internal/shared/server"
	"jobtrack-backend/internal/shared/storage/db"
	"jobtrack-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	ApplicationsRepo applications.Repo
	GuestRepo        *applications.GuestRepo
	UsersRepo        users.Repo

	ApplicationsService *applications.Service
	RemindersService    *reminders.Service
	MigrationService    *migration.Service
	UsersService        *users.Service

	ApplicationsHandler *applications.Handler
	RemindersHandler    *reminders.Handler
	AnalyticsHandler    *analytics.Handler
	MigrationHandler    *migration.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		ApplicationsHandler: app.ApplicationsHandler,
		RemindersHandler:    app.RemindersHandler,
		AnalyticsHandler:    app.AnalyticsHandler,
		UsersHandler:        app.UsersHandler,
		MigrationHandler:    app.MigrationHandler,
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	var appsRepo applications.Repo
	var userRepo users.Repo
	if app.DB != nil {
		appsRepo = &applications.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		appsRepo = applications.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}
	guestRepo := applications.NewGuestRepo(app.Config.GuestStoreDir)

	appsSvc := applications.NewService(appsRepo, guestRepo)
	remindersSvc := reminders.NewService(appsSvc)
	migrationSvc := migration.NewService(guestRepo, appsRepo)
	userSvc := users.NewService(userRepo)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.ApplicationsRepo = appsRepo
	app.GuestRepo = guestRepo
	app.UsersRepo = userRepo
	app.ApplicationsService = appsSvc
	app.RemindersService = remindersSvc
	app.MigrationService = migrationSvc
	app.UsersService = userSvc
	app.ApplicationsHandler = applications.NewHandler(appsSvc)
	app.RemindersHandler = reminders.NewHandler(remindersSvc)
	app.AnalyticsHandler = analytics.NewHandler(appsSvc)
	app.MigrationHandler = migration.NewHandler(migrationSvc)
	app.UsersHandler = users.NewHandler(userSvc, migrationSvc)
	app.GoogleAuth = googleAuthSvc
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
