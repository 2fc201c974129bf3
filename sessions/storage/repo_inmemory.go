package storage

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryRepo is a thread-safe in-memory Repo. Entries do not survive a restart.
type InMemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]entry
	nowF    func() time.Time
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates an empty in-memory repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		entries: make(map[string]entry),
		nowF:    time.Now,
	}
}

// WithNow overrides the clock (tests)
func (r *InMemoryRepo) WithNow(nowF func() time.Time) *InMemoryRepo {
	r.nowF = nowF
	return r
}

func (r *InMemoryRepo) Upsert(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy so callers can reuse their buffer
	stored := make([]byte, len(value))
	copy(stored, value)
	r.entries[key] = entry{value: stored, expiresAt: expiryFor(r.nowF(), ttl)}
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(r.nowF()) {
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		return nil, ErrNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

func (r *InMemoryRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowF()
	var removed int64
	for k, e := range r.entries {
		if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
			delete(r.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (r *InMemoryRepo) Close() error {
	return nil
}
