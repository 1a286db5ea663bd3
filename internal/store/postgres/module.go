package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/config"
	"github.com/webitel/timecapsule/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Module wires the Postgres-backed repositories into the application.
var Module = fx.Module("postgres",
	fx.Provide(
		NewDB,
		fx.Annotate(NewCapsuleRepository, fx.As(new(store.CapsuleRepository))),
		fx.Annotate(NewUserRepository, fx.As(new(store.UserRepository))),
		fx.Annotate(NewDraftRepository, fx.As(new(store.DraftRepository))),
		fx.Annotate(NewRecipientRepository, fx.As(new(store.RecipientRepository))),
	),
	fx.Invoke(func(lc fx.Lifecycle, db *sql.DB, logger *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return Migrate(ctx, db, logger)
			},
			OnStop: func(ctx context.Context) error {
				return db.Close()
			},
		})
	}),
)

// NewDB opens (but does not yet validate) the pooled connection to Postgres.
func NewDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	return db, nil
}

// Migrate applies schema.sql. It is idempotent (CREATE TABLE IF NOT EXISTS)
// so it is safe to run on every process start instead of tracking a
// migration version table — deliberately simple, see DESIGN.md.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	logger.Info("POSTGRES_SCHEMA_READY")
	return nil
}
