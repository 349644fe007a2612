package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/shopspring/decimal"
)

// DefaultFirstRequestID is where an originator's request counter starts.
const DefaultFirstRequestID uint64 = 100

// CallbackOptions configure the originator side of the protocol.
type CallbackOptions struct {
	// AuthorizedDeliverer is the only identity allowed to call HandleCallback.
	AuthorizedDeliverer domain.AccountID
	// CallbackRef is sent with every request so the fetcher knows where to deliver.
	CallbackRef string
	// Deposit is attached to every request sent to the gateway.
	Deposit decimal.Decimal
}

// CallbackService implements the originator's side: it sends requests to the
// gateway and accepts the results a fetcher delivers back.
type CallbackService struct {
	store   ports.ResponseStore
	gateway ports.GatewayClient
	opts    CallbackOptions
	logger  *slog.Logger
	now     func() time.Time

	currentID atomic.Uint64
}

func NewCallbackService(store ports.ResponseStore, gateway ports.GatewayClient, opts CallbackOptions, logger *slog.Logger) (*CallbackService, error) {
	if opts.AuthorizedDeliverer == "" {
		return nil, domain.NewInvalidAmbientStateError("an authorized deliverer identity must be configured")
	}
	if opts.CallbackRef == "" {
		opts.CallbackRef = "callback"
	}

	s := &CallbackService{
		store:   store,
		gateway: gateway,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
	s.currentID.Store(DefaultFirstRequestID)
	return s, nil
}

// HandleCallback accepts a delivered result. Only the authorized deliverer may
// call it; anything else is rejected without touching the store. A non-empty
// errMsg is stored and reported, not treated as a failed call.
func (s *CallbackService) HandleCallback(ctx context.Context, caller domain.AccountID, requestID domain.RequestID, errMsg string, payload domain.Payload) error {
	if caller == "" || caller != s.opts.AuthorizedDeliverer {
		s.logger.Warn("callback rejected",
			"caller", caller,
			"request_id", requestID,
		)
		return domain.NewUnauthorizedCallbackError(caller)
	}
	if requestID == "" {
		return domain.NewMissingRequiredFieldError("request_id")
	}

	if payload.Kind == "" {
		payload = domain.NoData()
	}

	resp := &domain.Response{
		RequestID:  requestID,
		Err:        errMsg,
		Payload:    payload,
		ReceivedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, resp); err != nil {
		return err
	}

	if resp.Failed() {
		s.logger.Warn("callback delivered an error",
			"request_id", requestID,
			"err", errMsg,
		)
		return nil
	}

	s.logger.Info("callback received",
		"request_id", requestID,
		"data", payload.Summary(),
	)
	return nil
}

// LastResponse returns the latest stored response.
func (s *CallbackService) LastResponse(ctx context.Context) (*domain.Response, error) {
	return s.store.Latest(ctx)
}

// ResponseFor returns the response stored for one request id.
func (s *CallbackService) ResponseFor(ctx context.Context, requestID domain.RequestID) (*domain.Response, error) {
	return s.store.Get(ctx, requestID)
}

// ClearResponse resets the latest payload to no data.
func (s *CallbackService) ClearResponse(ctx context.Context) error {
	return s.store.ClearPayload(ctx)
}

func (s *CallbackService) CurrentID() uint64 {
	return s.currentID.Load()
}

func (s *CallbackService) SetID(id uint64) {
	s.currentID.Store(id)
}

// MakeRequest takes the next request id and submits it to the gateway.
func (s *CallbackService) MakeRequest(ctx context.Context, dataKey, dataItem string) (domain.RequestID, error) {
	if dataKey == "" {
		return "", domain.NewMissingRequiredFieldError("data_key")
	}
	if dataItem == "" {
		return "", domain.NewMissingRequiredFieldError("data_item")
	}

	requestID := domain.RequestID(strconv.FormatUint(s.currentID.Add(1), 10))
	err := s.gateway.Enqueue(ctx, ports.RequestArgs{
		RequestID:   requestID,
		DataKey:     dataKey,
		DataItem:    dataItem,
		CallbackRef: s.opts.CallbackRef,
		Deposit:     s.opts.Deposit,
	})
	if err != nil {
		s.logger.Error("request to gateway failed",
			"request_id", requestID,
			"data_key", dataKey,
			"error", err,
		)
		return "", err
	}

	s.logger.Info("request sent",
		"request_id", requestID,
		"data_key", dataKey,
		"data_item", dataItem,
	)
	return requestID, nil
}
