package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Fetcher drives the relay: it polls the registry, fetches each request's
// data, delivers it to the originator and then removes the entry. Delivery
// and removal are separate calls; an entry whose delivery failed stays
// pending for the next pass.
type Fetcher struct {
	registry    ports.RegistryClient
	source      ports.DataSource
	deliverer   ports.Deliverer
	interval    time.Duration
	batchSize   int
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// PollReport counts what happened to the requests of one pass.
type PollReport struct {
	Listed         int
	Delivered      int
	Removed        int
	FetchFailed    int
	DeliveryFailed int
	// RaceLost counts entries another fetcher removed first.
	RaceLost     int
	RemoveFailed int
}

func NewFetcher(
	registry ports.RegistryClient,
	source ports.DataSource,
	deliverer ports.Deliverer,
	interval time.Duration,
	batchSize int,
	concurrency int,
	logger *slog.Logger,
) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		registry:    registry,
		source:      source,
		deliverer:   deliverer,
		interval:    interval,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

func (f *Fetcher) Start(ctx context.Context) {
	f.logger.Info("fetcher started",
		"interval", f.interval,
		"batch_size", f.batchSize,
		"concurrency", f.concurrency,
	)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("fetcher stopping")
			return
		case <-ticker.C:
			report, err := f.Poll(ctx)
			if err != nil {
				f.logger.Error("poll failed", "error", err)
				continue
			}
			if report.Listed > 0 {
				f.logger.Info("poll finished",
					"listed", report.Listed,
					"delivered", report.Delivered,
					"removed", report.Removed,
					"fetch_failed", report.FetchFailed,
					"delivery_failed", report.DeliveryFailed,
					"race_lost", report.RaceLost,
					"remove_failed", report.RemoveFailed,
				)
			}
		}
	}
}

// Poll runs a single pass over up to batchSize pending requests.
func (f *Fetcher) Poll(ctx context.Context) (PollReport, error) {
	requests, err := f.registry.List(ctx, f.batchSize)
	if err != nil {
		return PollReport{}, fmt.Errorf("list pending requests: %w", err)
	}

	p := &pass{fetched: make(map[string]fetchResult)}
	p.report.Listed = len(requests)

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for _, req := range requests {
		g.Go(func() error {
			f.process(ctx, p, req)
			return nil
		})
	}
	_ = g.Wait()

	return p.report, nil
}

type fetchResult struct {
	payload domain.Payload
	err     error
}

// pass holds the state shared by the requests of one Poll.
type pass struct {
	mu      sync.Mutex
	report  PollReport
	fetched map[string]fetchResult
	group   singleflight.Group
}

func (p *pass) count(field *int) {
	p.mu.Lock()
	*field++
	p.mu.Unlock()
}

func (f *Fetcher) process(ctx context.Context, p *pass, req *domain.Request) {
	resp := &domain.Response{
		RequestID:  req.RequestID,
		ReceivedAt: f.now().UTC(),
	}

	payload, err := f.fetch(ctx, p, req.DataKey, req.DataItem)
	if err != nil {
		p.count(&p.report.FetchFailed)
		f.logger.Warn("fetch failed, delivering error",
			"originator_id", req.OriginatorID,
			"request_id", req.RequestID,
			"data_key", req.DataKey,
			"data_item", req.DataItem,
			"error", err,
		)
		resp.Err = err.Error()
		resp.Payload = domain.NoData()
	} else {
		resp.Payload = payload
	}

	if err := f.deliverer.Deliver(ctx, req, resp); err != nil {
		p.count(&p.report.DeliveryFailed)
		f.logger.Error("delivery failed, request stays pending",
			"originator_id", req.OriginatorID,
			"request_id", req.RequestID,
			"error", err,
		)
		return
	}
	p.count(&p.report.Delivered)

	err = f.registry.Remove(ctx, req.OriginatorID, req.RequestID)
	switch {
	case err == nil:
		p.count(&p.report.Removed)
	case errors.Is(err, domain.ErrNotFound):
		p.count(&p.report.RaceLost)
		f.logger.Info("request already removed by another fetcher",
			"originator_id", req.OriginatorID,
			"request_id", req.RequestID,
		)
	default:
		p.count(&p.report.RemoveFailed)
		f.logger.Error("remove failed after delivery",
			"originator_id", req.OriginatorID,
			"request_id", req.RequestID,
			"action", "OWNER_REMOVAL_REQUIRED",
			"error", err,
		)
	}
}

// fetch asks the data source once per (data key, data item) per pass.
func (f *Fetcher) fetch(ctx context.Context, p *pass, dataKey, dataItem string) (domain.Payload, error) {
	key := dataKey + "\x00" + dataItem

	p.mu.Lock()
	if res, ok := p.fetched[key]; ok {
		p.mu.Unlock()
		return res.payload, res.err
	}
	p.mu.Unlock()

	v, _, _ := p.group.Do(key, func() (any, error) {
		p.mu.Lock()
		if res, ok := p.fetched[key]; ok {
			p.mu.Unlock()
			return res, nil
		}
		p.mu.Unlock()

		payload, err := f.source.Fetch(ctx, dataKey, dataItem)
		res := fetchResult{payload: payload, err: err}
		p.mu.Lock()
		p.fetched[key] = res
		p.mu.Unlock()
		return res, nil
	})
	res := v.(fetchResult)
	return res.payload, res.err
}
