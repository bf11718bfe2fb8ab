package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/studyassistant/internal/ai"
	"github.com/myrjola/studyassistant/internal/envstruct"
	"github.com/myrjola/studyassistant/internal/errors"
	"github.com/myrjola/studyassistant/internal/logging"
	"github.com/myrjola/studyassistant/internal/pprofserver"
	"github.com/myrjola/studyassistant/internal/repositories"
	"github.com/myrjola/studyassistant/internal/sqlite"
	"github.com/myrjola/studyassistant/internal/study"
	"golang.org/x/sync/errgroup"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type application struct {
	logger            *slog.Logger
	sessionManager    *scs.SessionManager
	registry          *study.Registry
	history           *repositories.StudyRepository
	htmx              *htmx.HTMX
	templates         templateCache
	generationTimeout time.Duration
	// closing is closed when the server starts shutting down so that long-lived event streams can end.
	closing chan struct{}
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"STUDYASSISTANT_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the SQLite database or ":memory:".
	SqliteURL string `env:"STUDYASSISTANT_SQLITE_URL" envDefault:"./studyassistant.sqlite"`
	// OpenAIAPIKey is optional. Without it the site works but study materials cannot be generated.
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL" envDefault:""`
	Model             string        `env:"STUDYASSISTANT_MODEL" envDefault:""`
	GenerationTimeout time.Duration `env:"STUDYASSISTANT_GENERATION_TIMEOUT" envDefault:"60s"`
	// SessionIdleTTL is how long an unused study session keeps its state in memory.
	SessionIdleTTL time.Duration `env:"STUDYASSISTANT_SESSION_IDLE_TTL" envDefault:"2h"`
	// PprofPort enables the pprof server on the IPv6 loopback address when set.
	PprofPort string `env:"STUDYASSISTANT_PPROF_PORT" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	aiClient := ai.NewClient(ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.Model,
	}, logger)
	if !aiClient.HasCredential() {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY is not set, study material generation is disabled")
	}

	history := repositories.NewStudyRepository(db, logger)
	registry := study.NewRegistry(func() *study.Controller {
		return study.NewController(aiClient, logger,
			study.WithRecorder(history),
			study.WithTimeout(cfg.GenerationTimeout))
	}, logger)

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, time.Hour)
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // half a day
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	var templates templateCache
	if templates, err = newTemplateCache(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	app := application{
		logger:            logger,
		sessionManager:    sessionManager,
		registry:          registry,
		history:           history,
		htmx:              htmx.New(),
		templates:         templates,
		generationTimeout: cfg.GenerationTimeout,
		closing:           make(chan struct{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.configureAndStartServer(gctx, cfg.Addr)
	})
	g.Go(func() error {
		db.StartOptimizer(gctx, time.Hour)
		return nil
	})
	g.Go(func() error {
		registry.StartEvictor(gctx, cfg.SessionIdleTTL, time.Minute)
		return nil
	})
	if cfg.PprofPort != "" {
		g.Go(func() error {
			return pprofserver.ListenAndServe(gctx, cfg.PprofPort, logger)
		})
	}

	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "run application")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, true)

	// The .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		stop()
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		stop()
		os.Exit(1)
	}
	stop()
}
