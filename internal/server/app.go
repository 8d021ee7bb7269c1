// Package server wires the auth server: Postgres storage, schema migrations,
// the user service and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/memodo/internal/logging"
	"github.com/dmitrijs2005/memodo/internal/server/config"
	"github.com/dmitrijs2005/memodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memodo/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/memodo/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

// NewApp connects to Postgres, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, db, repomanager.NewPostgresRepositoryManager(), l)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) (*App, error) {
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	return &App{
		config:      c,
		logger:      l,
		db:          db,
		userService: services.NewUserService(db, m, c),
	}, nil
}

// Run serves gRPC until ctx is done.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService,
		app.config.RateLimitRPS, app.config.RateLimitBurst)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		return err
	}

	app.logger.Info(ctx, "Stopped")
	return nil
}

func (app *App) Close() error {
	return app.db.Close()
}
