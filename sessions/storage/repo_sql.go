package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dialect holds the per-driver SQL text
type dialect struct {
	name            string
	upsert          string
	get             string
	remove          string
	removeExpired   string
	countMigration  string
	recordMigration string
}

var sqliteDialect = dialect{
	name: "sqlite",
	upsert: `INSERT INTO session_entries (entry_key, entry_value, expires_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
	get:             `SELECT entry_value, expires_at FROM session_entries WHERE entry_key = ?`,
	remove:          `DELETE FROM session_entries WHERE entry_key = ?`,
	removeExpired:   `DELETE FROM session_entries WHERE expires_at > 0 AND expires_at <= ?`,
	countMigration:  `SELECT COUNT(*) FROM schema_migrations WHERE name = ?`,
	recordMigration: `INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
}

var postgresDialect = dialect{
	name: "postgres",
	upsert: `INSERT INTO session_entries (entry_key, entry_value, expires_at, updated_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`,
	get:             `SELECT entry_value, expires_at FROM session_entries WHERE entry_key = $1`,
	remove:          `DELETE FROM session_entries WHERE entry_key = $1`,
	removeExpired:   `DELETE FROM session_entries WHERE expires_at > 0 AND expires_at <= $1`,
	countMigration:  `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`,
	recordMigration: `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2)`,
}

// SQLRepo is a database/sql backed Repo shared by the SQLite and Postgres drivers.
// expires_at is stored as unix milliseconds, 0 meaning no expiry.
type SQLRepo struct {
	db   *sql.DB
	d    dialect
	nowF func() time.Time
}

var _ Repo = (*SQLRepo)(nil)

func (r *SQLRepo) Upsert(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	now := r.nowF()
	var expiresAt int64
	if exp := expiryFor(now, ttl); !exp.IsZero() {
		expiresAt = exp.UnixMilli()
	}
	if _, err := r.db.ExecContext(ctx, r.d.upsert, key, value, expiresAt, now.UnixMilli()); err != nil {
		return fmt.Errorf("[storage %s Upsert] %w", r.d.name, err)
	}
	return nil
}

func (r *SQLRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var (
		value     []byte
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, r.d.get, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[storage %s Get] %w", r.d.name, err)
	}

	if expiresAt > 0 && expiresAt <= r.nowF().UnixMilli() {
		if err := r.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return value, nil
}

func (r *SQLRepo) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, r.d.remove, key); err != nil {
		return fmt.Errorf("[storage %s Delete] %w", r.d.name, err)
	}
	return nil
}

func (r *SQLRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.d.removeExpired, r.nowF().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("[storage %s DeleteExpired] %w", r.d.name, err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database
func (r *SQLRepo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// WithNow overrides the clock (tests)
func (r *SQLRepo) WithNow(nowF func() time.Time) *SQLRepo {
	r.nowF = nowF
	return r
}
