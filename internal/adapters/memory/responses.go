package memory

import (
	"context"
	"sync"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

// ResponseStore keeps the latest response plus one response per request id.
type ResponseStore struct {
	mu        sync.RWMutex
	latest    *domain.Response
	byRequest map[domain.RequestID]*domain.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{
		byRequest: make(map[domain.RequestID]*domain.Response),
	}
}

func (s *ResponseStore) Put(_ context.Context, resp *domain.Response) error {
	stored := *resp
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &stored
	s.byRequest[resp.RequestID] = &stored
	return nil
}

func (s *ResponseStore) Latest(_ context.Context) (*domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return &domain.Response{Payload: domain.NoData()}, nil
	}
	out := *s.latest
	return &out, nil
}

func (s *ResponseStore) Get(_ context.Context, requestID domain.RequestID) (*domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp, ok := s.byRequest[requestID]
	if !ok {
		return nil, domain.NewResponseNotFoundError(requestID)
	}
	out := *resp
	return &out, nil
}

func (s *ResponseStore) ClearPayload(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil
	}
	cleared := *s.latest
	cleared.Payload = domain.NoData()
	s.latest = &cleared
	s.byRequest[cleared.RequestID] = &cleared
	return nil
}
