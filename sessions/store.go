package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/secondbloom/admin-dashboard/users"
)

// Store is the session state of one browser. Memory is updated first and every
// persister write follows under the same lock, so user and tokens always move together.
type Store struct {
	mu        sync.RWMutex
	state     Session
	persister Persister
}

// NewStore returns an empty store backed by persister. Call Initialize to rehydrate it.
func NewStore(persister Persister) *Store {
	return &Store{persister: persister}
}

// Initialize loads the persisted session into memory. A failed load is logged
// and leaves the store empty.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil {
		s.state = Session{}
		return
	}
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		log.Err(err).Msg("unable to rehydrate session, starting logged out")
		s.state = Session{}
		return
	}
	s.state = loaded.normalize()
}

// SetAuth stores the user and token pair. Callers have already checked the role;
// no validation happens here.
func (s *Store) SetAuth(ctx context.Context, user users.User, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = newSession(&user, accessToken, refreshToken)
	return s.save(ctx)
}

// Logout clears memory, durable storage and cookies. Safe to call repeatedly.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Session{}
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("[sessions Store Logout] %w", err)
	}
	return nil
}

// ReplaceUser swaps in an updated profile and keeps the current tokens.
func (s *Store) ReplaceUser(ctx context.Context, user users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated {
		return ErrNotAuthenticated
	}
	s.state = newSession(&user, s.state.AccessToken, s.state.RefreshToken)
	return s.save(ctx)
}

// Resync writes the current session to every sink again. It restores cookies that
// expired while the durable entry is still live.
func (s *Store) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated {
		return ErrNotAuthenticated
	}
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.state); err != nil {
		return fmt.Errorf("[sessions Store save] %w", err)
	}
	return nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

// User returns a copy of the signed-in user, or nil when logged out
func (s *Store) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}
