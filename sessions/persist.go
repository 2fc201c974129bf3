package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/secondbloom/admin-dashboard/sessions/storage"
)

// Sink receives every session write
type Sink interface {
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Persister is a Sink that can also load the session back
type Persister interface {
	Sink
	Load(ctx context.Context) (Session, error)
}

// Sinks loads from Source and fans every write out to Source then Mirrors.
// Mirrors are write-only copies such as cookies.
type Sinks struct {
	Source  Persister
	Mirrors []Sink
}

var _ Persister = Sinks{}

func (s Sinks) Load(ctx context.Context) (Session, error) {
	if s.Source == nil {
		return Session{}, nil
	}
	return s.Source.Load(ctx)
}

func (s Sinks) Save(ctx context.Context, session Session) error {
	var errs []error
	if s.Source != nil {
		if err := s.Source.Save(ctx, session); err != nil {
			errs = append(errs, err)
		}
	}
	for _, m := range s.Mirrors {
		if err := m.Save(ctx, session); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s Sinks) Clear(ctx context.Context) error {
	var errs []error
	if s.Source != nil {
		if err := s.Source.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, m := range s.Mirrors {
		if err := m.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StorageSink persists the session as a JSON entry under one storage key.
// An empty Key loads nothing and writes nothing.
type StorageSink struct {
	Repo storage.Repo
	Key  string
	TTL  time.Duration
}

var _ Persister = StorageSink{}

func (s StorageSink) Load(ctx context.Context) (Session, error) {
	if s.Key == "" {
		return Session{}, nil
	}
	raw, err := s.Repo.Get(ctx, s.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("[sessions StorageSink Load] %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, fmt.Errorf("[sessions StorageSink Load] decode: %w", err)
	}
	return session.normalize(), nil
}

func (s StorageSink) Save(ctx context.Context, session Session) error {
	if s.Key == "" {
		return nil
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[sessions StorageSink Save] encode: %w", err)
	}
	if err := s.Repo.Upsert(ctx, s.Key, raw, s.TTL); err != nil {
		return fmt.Errorf("[sessions StorageSink Save] %w", err)
	}
	return nil
}

func (s StorageSink) Clear(ctx context.Context) error {
	if s.Key == "" {
		return nil
	}
	if err := s.Repo.Delete(ctx, s.Key); err != nil {
		return fmt.Errorf("[sessions StorageSink Clear] %w", err)
	}
	return nil
}
