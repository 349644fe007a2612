package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/config"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
)

type retrier struct {
	baseDelay  time.Duration
	maxRetries int
	jitter     func() time.Duration
}

func newRetrier(cfg config.RetryConfig) retrier {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return retrier{
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
		jitter: func() time.Duration {
			return time.Duration(rand.Intn(1000)) * time.Millisecond
		},
	}
}

// RetryDeliverer retries transient delivery failures.
type RetryDeliverer struct {
	inner ports.Deliverer
	retrier
}

func NewRetryDeliverer(inner ports.Deliverer, cfg config.RetryConfig) *RetryDeliverer {
	return &RetryDeliverer{inner: inner, retrier: newRetrier(cfg)}
}

func (r *RetryDeliverer) Deliver(ctx context.Context, req *domain.Request, resp *domain.Response) error {
	_, err := retry(ctx, r.retrier, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.inner.Deliver(ctx, req, resp)
	})
	return err
}

// RetryDataSource retries transient feed failures.
type RetryDataSource struct {
	inner ports.DataSource
	retrier
}

func NewRetryDataSource(inner ports.DataSource, cfg config.RetryConfig) *RetryDataSource {
	return &RetryDataSource{inner: inner, retrier: newRetrier(cfg)}
}

func (r *RetryDataSource) Fetch(ctx context.Context, dataKey, dataItem string) (domain.Payload, error) {
	return retry(ctx, r.retrier, func(ctx context.Context) (domain.Payload, error) {
		return r.inner.Fetch(ctx, dataKey, dataItem)
	})
}

// Generic retry helper
func retry[T any](ctx context.Context, r retrier, operation func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(r.backoff(attempt)):
			}
		}
	}

	return zero, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Transient()
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}

// backoff grows exponentially from baseDelay and adds jitter.
func (r retrier) backoff(attempt int) time.Duration {
	return r.baseDelay*time.Duration(1<<attempt) + r.jitter()
}
