package memory

import (
	"context"
	"sync"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

type StateRepository struct {
	mu    sync.RWMutex
	state *domain.RegistryState
}

func NewStateRepository() *StateRepository {
	return &StateRepository{}
}

func (r *StateRepository) CreateState(_ context.Context, state *domain.RegistryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		return domain.NewInvalidAmbientStateError("registry is already initialized")
	}
	s := *state
	r.state = &s
	return nil
}

func (r *StateRepository) LoadState(_ context.Context) (*domain.RegistryState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return nil, domain.NewInvalidAmbientStateError("registry must be initialized before use")
	}
	s := *r.state
	return &s, nil
}
