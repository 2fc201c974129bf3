package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/secondbloom/admin-dashboard/sessions/storage/migrations"
)

// OpenPostgres connects with the pgx stdlib driver and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*SQLRepo, error) {
	if dsn == "" {
		return nil, fmt.Errorf("[storage OpenPostgres] dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("[storage OpenPostgres] open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[storage OpenPostgres] ping: %w", err)
	}

	if err := applyMigrations(ctx, db, postgresDialect, migrations.FS, "postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[storage OpenPostgres] run migrations: %w", err)
	}

	return &SQLRepo{db: db, d: postgresDialect, nowF: time.Now}, nil
}
