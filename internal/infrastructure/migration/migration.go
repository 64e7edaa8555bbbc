package migration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Migrations lists the schema steps in application order. Every step is
// idempotent so the list runs in full on each startup.
func Migrations() []Migration {
	return []Migration{
		{Name: "create_saved_cvs", Up: createSavedCVs},
		{Name: "index_saved_cvs_created_at", Up: indexSavedCVsCreatedAt},
	}
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	log.Info("starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			log.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.Info("migration completed", zap.String("name", m.Name))
	}

	log.Info("all migrations completed successfully")
	return nil
}

func createSavedCVs(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS saved_cvs (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			data       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func indexSavedCVsCreatedAt(ctx context.Context, pool *pgxpool.Pool) error {
	query := `CREATE INDEX IF NOT EXISTS idx_saved_cvs_created_at ON saved_cvs (created_at DESC);`
	_, err := pool.Exec(ctx, query)
	return err
}
