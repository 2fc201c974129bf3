package login

import (
	"errors"
	"sync"
	"time"
)

// InMemoryRepo keeps flows in process memory. Flows are stored by pointer
// because each one guards its own state.
type InMemoryRepo struct {
	mu    sync.RWMutex
	flows map[string]*Flow
	ttl   time.Duration
	nowF  func() time.Time
}

// NewInMemoryRepo creates a repo whose flows expire ttl after they were started
func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		flows: make(map[string]*Flow),
		ttl:   ttl,
		nowF:  time.Now,
	}
}

// WithNow replaces the clock (used by tests)
func (r *InMemoryRepo) WithNow(nowF func() time.Time) *InMemoryRepo {
	r.nowF = nowF
	return r
}

func (r *InMemoryRepo) Upsert(id string, flow *Flow) error {
	if id == "" {
		return errors.New("flow id cannot be empty")
	}
	if flow == nil {
		return errors.New("flow cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[id] = flow
	return nil
}

func (r *InMemoryRepo) Get(id string) (*Flow, error) {
	if id == "" {
		return nil, ErrFlowNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	flow, exists := r.flows[id]
	if !exists {
		return nil, ErrFlowNotFound
	}
	if r.expired(flow) {
		delete(r.flows, id)
		return nil, ErrFlowExpired
	}
	return flow, nil
}

func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return errors.New("flow id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, id)
	return nil
}

// DeleteExpired drops every expired flow and reports how many were removed
func (r *InMemoryRepo) DeleteExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, flow := range r.flows {
		if r.expired(flow) {
			delete(r.flows, id)
			removed++
		}
	}
	return removed
}

func (r *InMemoryRepo) expired(flow *Flow) bool {
	return r.ttl > 0 && !r.nowF().Before(flow.CreatedAt().Add(r.ttl))
}
