package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/memory"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
)

// MockRequestRepository wraps the in-memory repository. Setting a Fn field
// overrides the matching call.
type MockRequestRepository struct {
	*memory.RequestRepository

	AppendFn func(ctx context.Context, req *domain.Request) error
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{RequestRepository: memory.NewRequestRepository()}
}

func (m *MockRequestRepository) WithTx(ctx context.Context, fn func(ports.RequestRepository) error) error {
	return m.RequestRepository.WithTx(ctx, func(tx ports.RequestRepository) error {
		return fn(&mockRequestTx{RequestRepository: tx, appendFn: m.AppendFn})
	})
}

type mockRequestTx struct {
	ports.RequestRepository
	appendFn func(ctx context.Context, req *domain.Request) error
}

func (t *mockRequestTx) Append(ctx context.Context, req *domain.Request) error {
	if t.appendFn != nil {
		if err := t.appendFn(ctx, req); err != nil {
			return err
		}
	}
	return t.RequestRepository.Append(ctx, req)
}

// MockGatewayClient records every enqueue it receives.
type MockGatewayClient struct {
	mu    sync.Mutex
	Calls []ports.RequestArgs

	EnqueueFn func(ctx context.Context, args ports.RequestArgs) error
}

func (m *MockGatewayClient) Enqueue(ctx context.Context, args ports.RequestArgs) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, args)
	m.mu.Unlock()
	if m.EnqueueFn != nil {
		return m.EnqueueFn(ctx, args)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
