package login

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service starts and finds login flows
type Service struct {
	api   AuthAPI
	repo  Repo
	nowF  func() time.Time
	newID func() string
}

func NewService(api AuthAPI, repo Repo) *Service {
	return &Service{
		api:   api,
		repo:  repo,
		nowF:  time.Now,
		newID: uuid.NewString,
	}
}

// Start creates a flow in AwaitingPhone
func (s *Service) Start() (*Flow, error) {
	flow := NewFlow(s.newID(), s.api, s.nowF())
	if err := s.repo.Upsert(flow.ID(), flow); err != nil {
		return nil, err
	}
	return flow, nil
}

// Find returns the live flow for id, or ErrFlowNotFound / ErrFlowExpired
func (s *Service) Find(id string) (*Flow, error) {
	return s.repo.Get(id)
}

// FindOrStart resumes the flow for id, starting a new one when it is gone.
func (s *Service) FindOrStart(id string) (*Flow, bool, error) {
	if flow, err := s.repo.Get(id); err == nil {
		return flow, false, nil
	}
	flow, err := s.Start()
	return flow, true, err
}

// Discard forgets a flow once it has finished
func (s *Service) Discard(id string) {
	if id == "" {
		return
	}
	if err := s.repo.Delete(id); err != nil {
		log.Err(err).Str("flow", id).Msg("unable to discard login flow")
	}
}

// RunJanitor drops expired flows every interval until ctx is done
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.repo.DeleteExpired(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("expired login flows purged")
			}
		}
	}
}
