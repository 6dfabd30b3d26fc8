// Package app wires configuration, storage, caches and services into a
// runnable HTTP application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opustack/gatekey/internal/auth/cache"
	httpapi "github.com/opustack/gatekey/internal/auth/http"
	"github.com/opustack/gatekey/internal/auth/notify"
	"github.com/opustack/gatekey/internal/auth/repo"
	"github.com/opustack/gatekey/internal/auth/service"
	"github.com/opustack/gatekey/internal/auth/store"
	"github.com/opustack/gatekey/internal/auth/store/drivers/sqlite"
	"github.com/opustack/gatekey/internal/auth/token"
	"github.com/opustack/gatekey/internal/telemetry"
	"github.com/opustack/gatekey/pkg/jwtx"
	"github.com/opustack/gatekey/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	redis   *redis.Client
	tracing *telemetry.Provider

	loginService  *service.LoginService
	chooseService *service.MFAChooseService
	userService   *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatekey",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	tracing, err := telemetry.NewProvider(ctx, cfg.OTLPEndpoint, "gatekey")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.tracing = tracing

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := app.redis.Ping(ctx).Err(); err != nil {
		app.logger.Warn("redis not reachable at startup", "addr", cfg.RedisAddr, "err", err)
	}

	// Session signing key is ephemeral: a restart invalidates outstanding
	// sessions, which is acceptable for this service.
	signer, err := jwtx.GenerateSignerEdDSA("gatekey-session")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session signer: %w", err)
	}

	app.initServices(signer)
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("gatekey starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the server and closes dependencies.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatekey...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.tracing.Shutdown(ctx); err != nil {
		app.logger.Error("error shutting down tracing", "error", err)
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gatekey stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices(signer jwtx.Signer) {
	challenges := cache.NewChallengeCache(app.redis, app.cfg.ChallengeTTL)
	codes := cache.NewCodeCache(app.redis, app.cfg.CodeTTL)

	app.loginService = &service.LoginService{
		Users:      &repo.UserRepo{Store: app.db},
		Strategies: &repo.StrategyRepo{Store: app.db},
		Challenges: challenges,
		Tokens: &token.Issuer{
			Signer: signer,
			Issuer: app.cfg.Issuer,
			TTL:    app.cfg.SessionTTL,
		},
	}

	var email notify.EmailSender
	if app.cfg.SMTPHost != "" {
		email = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			From:     app.cfg.SMTPFrom,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
		})
	} else {
		app.logger.Warn("no SMTP relay configured, logging email codes instead")
		email = &notify.LogEmailSender{Logger: app.logger}
	}

	app.chooseService = &service.MFAChooseService{
		Challenges: challenges,
		Codes:      codes,
		Notifier: &notify.Notifier{
			Users: app.db.Users(),
			Codes: codes,
			Email: email,
			SMS:   &notify.LogSMSSender{Logger: app.logger},
		},
	}

	app.userService = &service.UserService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.redis, app.logger)

	router.LoginService = app.loginService
	router.ChooseService = app.chooseService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
