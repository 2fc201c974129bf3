package storage

import (
	"context"
	"fmt"

	"github.com/secondbloom/admin-dashboard/internal/config"
	"github.com/secondbloom/admin-dashboard/internal/errors"
)

// Open returns the Repo selected by STORAGE_DRIVER
func Open(ctx context.Context, c config.StorageConfig) (Repo, error) {
	switch c.GetStorageDriver() {
	case config.StorageMemory:
		return NewInMemoryRepo(), nil
	case config.StorageSQLite:
		return OpenSQLite(ctx, c.GetSQLitePath())
	case config.StorageRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
	case config.StoragePostgres:
		return OpenPostgres(ctx, c.GetPostgresDSN())
	default:
		return nil, fmt.Errorf("[storage Open] driver %q: %w", c.GetStorageDriver(), errors.ErrUnsupported)
	}
}
