package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

type PendingLister interface {
	List(ctx context.Context, limit int) ([]*domain.Request, error)
}

// StaleMonitor reports requests that have been pending longer than maxAge.
// They usually mean a fetcher delivered but crashed before removing, and only
// the owner can clear them.
type StaleMonitor struct {
	registry PendingLister
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewStaleMonitor(registry PendingLister, interval, maxAge time.Duration, logger *slog.Logger) *StaleMonitor {
	return &StaleMonitor{
		registry: registry,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
		now:      time.Now,
	}
}

func (w *StaleMonitor) Start(ctx context.Context) {
	w.logger.Info("stale request monitor started", "interval", w.interval, "max_age", w.maxAge)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stale request monitor stopping")
			return
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				w.logger.Error("stale request check failed", "error", err)
			}
		}
	}
}

// Check returns the pending requests older than maxAge, oldest first.
func (w *StaleMonitor) Check(ctx context.Context) ([]*domain.Request, error) {
	requests, err := w.registry.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	cutoff := w.now().Add(-w.maxAge)
	var stale []*domain.Request
	for _, req := range requests {
		if !req.CreatedAt.Before(cutoff) {
			continue
		}
		stale = append(stale, req)
		w.logger.Warn("STALE_PENDING_REQUEST",
			"originator_id", req.OriginatorID,
			"request_id", req.RequestID,
			"age_minutes", w.now().Sub(req.CreatedAt).Minutes(),
			"action", "OWNER_REMOVAL_REQUIRED",
		)
	}
	return stale, nil
}
