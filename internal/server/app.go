// Package server wires the account server together: it opens the database,
// applies migrations, seeds the bootstrap admin and runs the gRPC endpoint
// until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/groupfinal/accounts/internal/logging"
	"github.com/groupfinal/accounts/internal/server/config"
	"github.com/groupfinal/accounts/internal/server/repositories/repomanager"
	"github.com/groupfinal/accounts/internal/server/services"

	gs "github.com/groupfinal/accounts/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	directory *services.AccountDirectory
	tokens    *services.TokenService
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	directory := services.NewAccountDirectory(rm.Accounts(db), logger.With("module", "accounts"))
	tokens := services.NewTokenService(db, rm, c)

	return &App{config: c, logger: logger, db: db, directory: directory, tokens: tokens}, nil
}

// seedAdmin makes sure the configured bootstrap admin exists.
func (app *App) seedAdmin(ctx context.Context) error {
	if app.config.BootstrapAdminUsername == "" {
		return nil
	}
	if _, err := app.directory.EnsureAdmin(ctx, app.config.BootstrapAdminUsername, app.config.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startGRPCServer serves until ctx is done. A serve failure cancels the app
// and is returned.
func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.directory, app.tokens, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// Run seeds the bootstrap admin, serves gRPC and blocks until ctx is
// cancelled or SIGINT/SIGTERM/SIGQUIT arrives. It returns the error that
// stopped the server, if any. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	defer func() {
		if app.db != nil {
			_ = app.db.Close()
		}
	}()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.seedAdmin(ctx); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	var (
		wg       sync.WaitGroup
		serveErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return serveErr
}
