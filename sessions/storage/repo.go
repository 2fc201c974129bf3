// Package storage is the durable key-value medium behind the session store.
// Values are opaque bytes; expiry is enforced on read.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is missing or expired
var ErrNotFound = errors.New("storage: entry not found")

// Repo persists session entries by key
type Repo interface {
	// Upsert stores value under key. A ttl <= 0 means no expiry.
	Upsert(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value for key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
	// DeleteExpired removes expired entries and returns how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
	Close() error
}

func expiryFor(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("storage: key is required")
	}
	return nil
}
