package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/documents"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/storage/filestore"
	"jobboard-backend/internal/shared/storage/object"
	localstore "jobboard-backend/internal/shared/storage/object/local"
	s3store "jobboard-backend/internal/shared/storage/object/s3"
	"jobboard-backend/internal/shared/telemetry"
)

const probeTimeout = 5 * time.Second

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Backend            object.Backend
	Files              *filestore.Service
	Tokens             *auth.Tokens
	Health             *health.Service
	ResumesService     *resumes.Service
	ApplicationService *applications.Service
	ResumeHandler      *resumes.Handler
	ApplicationHandler *applications.Handler
}

// Build prepares shared dependencies and the router. A misconfigured object
// store does not fail Build; document operations report storage as
// unavailable instead.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.StorageType) == "" {
		cfg.StorageType = config.StoreTypeLocal
	}
	ctx := context.Background()

	tokens, err := auth.NewTokens(cfg.Env, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, reporter := buildStore(ctx, cfg)
	files := filestore.New(backend, filestore.Options{
		Kind:      cfg.StorageType,
		PublicURL: cfg.ObjectStorePublicURL,
		Prefix:    objectPrefix(cfg),
	})

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Backend: backend,
		Files:   files,
		Tokens:  tokens,
	}
	if sqlDB != nil {
		app.Health = health.NewService(files, reporter, sqlDB)
	} else {
		app.Health = health.NewService(files, reporter, nil)
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Tokens:             tokens,
		Health:             app.Health,
		ResumeHandler:      app.ResumeHandler,
		ApplicationHandler: app.ApplicationHandler,
		RateLimiter:        middleware.NewRateLimiter(nil),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildStore selects the storage backend. It never fails: an unusable
// configuration yields a backend that reports storage as unavailable.
func buildStore(ctx context.Context, cfg config.Config) (object.Backend, health.DegradedReporter) {
	switch cfg.StorageType {
	case config.StoreTypeObjectStore:
		store := s3store.New(ctx, s3store.Config{
			Endpoint:  cfg.ObjectStoreEndpoint,
			AccessKey: cfg.ObjectStoreAccessKey,
			SecretKey: cfg.ObjectStoreSecretKey,
			Bucket:    cfg.ObjectStoreBucket,
			Region:    cfg.ObjectStoreRegion,
			Prefix:    cfg.ObjectStorePrefix,
		})
		if !store.Degraded() {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			_ = store.Probe(probeCtx)
			cancel()
		}
		return store, store
	default:
		store, err := localstore.New(cfg.UploadDir)
		if err != nil {
			telemetry.Error("storage.local_unavailable", map[string]any{"dir": cfg.UploadDir, "error": err})
			return nil, nil
		}
		return store, nil
	}
}

// objectPrefix is the folder the object store nests keys under, so public
// URLs point at the stored object.
func objectPrefix(cfg config.Config) string {
	if cfg.StorageType != config.StoreTypeObjectStore {
		return ""
	}
	return cfg.ObjectStorePrefix
}

func buildServices(app *App) {
	var resumeRepo resumes.Repo
	var applicationRepo applications.Repo
	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		applicationRepo = &applications.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		applicationRepo = applications.NewMemoryRepo()
	}

	validator := documents.NewValidator(app.Config.ResumeMaxBytes)
	guard := access.NewGuard()

	app.ResumesService = resumes.NewService(resumeRepo, app.Files, validator, guard)
	app.ApplicationService = applications.NewService(applicationRepo, app.Files, validator, guard)
	app.ResumeHandler = resumes.NewHandler(app.ResumesService)
	app.ApplicationHandler = applications.NewHandler(app.ApplicationService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
