package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"callsync/internal/control"
	"callsync/internal/poller"
	"callsync/internal/recordings"
	"callsync/internal/scanner"
	"callsync/internal/server"
	"callsync/internal/services/health"
	"callsync/internal/session"
	"callsync/internal/shared/config"
	"callsync/internal/shared/storage/db"
	"callsync/internal/shared/storage/object"
	localstore "callsync/internal/shared/storage/object/local"
	s3store "callsync/internal/shared/storage/object/s3"
	"callsync/internal/shared/telemetry"
	"callsync/internal/state"
	"callsync/internal/uploader"
)

// App holds shared dependencies for both the API and the headless worker.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Archive object.ObjectStore

	StateStore state.Store
	State      *state.Service
	Sessions   *session.Service
	Uploader   *uploader.Client
	History    recordings.Repo
	Runner     *poller.Runner

	RecordingsService *recordings.Service
	SessionHandler    *session.Handler
	RecordingsHandler *recordings.Handler
	ControlHandler    *control.Handler
	Health            *health.Service
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

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Archive: archive,
	}
	buildServices(app)

	app.Router = server.NewEngine(cfg, server.Deps{
		Health:     app.Health,
		Session:    app.SessionHandler,
		Recordings: app.RecordingsHandler,
		Control:    app.ControlHandler,
	})
	return app, nil
}

// ResumeIfFlagged restarts the poll loop after a process restart when the
// persisted flag says it was running, a profile exists, and the folder is
// still reachable. Anything short of that clears the flag instead.
func (a *App) ResumeIfFlagged(ctx context.Context) {
	if !a.State.ServiceRunning(ctx) {
		return
	}

	profile, err := a.Sessions.Current(ctx)
	if err != nil {
		telemetry.Info("bootstrap.resume.skipped", map[string]any{"reason": "no profile"})
		a.clearRunningFlag(ctx)
		return
	}

	dir := profile.FolderPath
	if dir == "" {
		dir = a.Config.WatchDir
	}
	if err := scanner.CheckFolder(dir); err != nil {
		telemetry.Warn("bootstrap.resume.skipped", map[string]any{
			"reason": "folder unavailable",
			"folder": dir,
			"error":  err.Error(),
		})
		a.clearRunningFlag(ctx)
		return
	}

	a.Runner.Start()
	telemetry.Info("bootstrap.resume.started", map[string]any{"folder": dir})
}

func (a *App) clearRunningFlag(ctx context.Context) {
	if err := a.State.SetServiceRunning(ctx, false); err != nil {
		telemetry.Warn("bootstrap.resume.flag_clear_failed", map[string]any{"error": err.Error()})
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory stores")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory stores: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArchiveStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalArchiveDir), nil
	default:
		return nil, nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.StateStore = &state.PGStore{DB: app.DB}
		app.History = &recordings.PGRepo{DB: app.DB}
	} else {
		app.StateStore = state.NewMemoryStore()
		app.History = recordings.NewMemoryRepo()
	}

	app.State = state.NewService(app.StateStore)
	app.Sessions = session.NewService(app.State)
	app.Uploader = uploader.New(app.Config.UploadBaseURL, app.Config.UploadAuthToken, app.Config.UploadXSRFToken)

	app.Runner = &poller.Runner{
		State:       app.State,
		Sessions:    app.Sessions,
		Uploads:     app.Uploader,
		History:     app.History,
		Archive:     app.Archive,
		DefaultDir:  app.Config.WatchDir,
		Interval:    app.Config.PollInterval,
		UploadDelay: app.Config.UploadDelay,
	}

	app.RecordingsService = &recordings.Service{
		Repo:       app.History,
		State:      app.State,
		Sessions:   app.Sessions,
		Archive:    app.Archive,
		DefaultDir: app.Config.WatchDir,
	}

	app.SessionHandler = session.NewHandler(app.Sessions, app.Runner)
	app.RecordingsHandler = recordings.NewHandler(app.RecordingsService)
	app.ControlHandler = control.NewHandler(app.Runner, app.Sessions, app.State, app.Config.WatchDir)
	app.Health = health.NewService(app.DB, app.Runner)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
