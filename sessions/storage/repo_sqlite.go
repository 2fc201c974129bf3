package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/secondbloom/admin-dashboard/sessions/storage/migrations"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the SQLite database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLRepo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("[storage OpenSQLite] path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("[storage OpenSQLite] create data dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("[storage OpenSQLite] open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[storage OpenSQLite] ping: %w", err)
	}

	if err := applyMigrations(ctx, db, sqliteDialect, migrations.FS, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[storage OpenSQLite] run migrations: %w", err)
	}

	return &SQLRepo{db: db, d: sqliteDialect, nowF: time.Now}, nil
}
