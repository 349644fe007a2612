package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

// RegistryService is the pending request registry guarded by admission control.
// Each method is one atomic call: on error nothing it wrote is kept.
//
// Deposits are paid from prepaid balances. The owner credits a balance when
// it receives a payment out of band; enqueue moves the attached deposit from
// the originator's balance to the owner's in the same transaction that stores
// the entry.
type RegistryService struct {
	repo     ports.RequestRepository
	states   ports.StateRepository
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	state *domain.RegistryState
}

func NewRegistryService(repo ports.RequestRepository, states ports.StateRepository, logger *slog.Logger) *RegistryService {
	return &RegistryService{
		repo:     repo,
		states:   states,
		validate: newValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// Initialize fixes the owner and the minimum deposit. It can only succeed once
// per registry.
func (s *RegistryService) Initialize(ctx context.Context, cmd InitializeCommand) (*domain.RegistryState, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}

	minDeposit := decimal.Zero
	if cmd.MinDeposit != "" {
		d, err := decimal.NewFromString(cmd.MinDeposit)
		if err != nil || d.IsNegative() {
			return nil, &domain.DomainError{
				Code:    domain.ErrCodeMissingRequiredField,
				Message: "min_deposit must be a non-negative amount",
				Err:     err,
			}
		}
		minDeposit = d
	}

	state := &domain.RegistryState{
		OwnerID:       domain.AccountID(cmd.OwnerID),
		MinDeposit:    minDeposit,
		InitializedAt: s.now().UTC(),
	}
	if err := s.states.CreateState(ctx, state); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.Info("registry initialized",
		"owner_id", state.OwnerID,
		"min_deposit", state.MinDeposit.String(),
	)
	return state, nil
}

// State returns the registry state, failing with INVALID_AMBIENT_STATE before
// initialization.
func (s *RegistryService) State(ctx context.Context) (*domain.RegistryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		return s.state, nil
	}

	state, err := s.states.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	s.state = state
	return state, nil
}

func (s *RegistryService) admission(ctx context.Context) (*AdmissionControl, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	return NewAdmissionControl(state), nil
}

// Enqueue appends a request for the calling originator.
func (s *RegistryService) Enqueue(ctx context.Context, call domain.CallContext, cmd EnqueueCommand) (*domain.Request, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}

	admission, err := s.admission(ctx)
	if err != nil {
		return nil, err
	}

	req, err := admission.Admit(call, cmd, s.now().UTC())
	if err != nil {
		s.logger.Warn("request rejected",
			"caller", call.Caller,
			"request_id", cmd.RequestID,
			"deposit", call.AttachedDeposit.String(),
			"error", err,
		)
		return nil, err
	}

	owner := admission.state.OwnerID
	err = s.repo.WithTx(ctx, func(txRepo ports.RequestRepository) error {
		exists, err := txRepo.ExistsPending(ctx, req.OriginatorID, req.RequestID)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewDuplicateRequestError(req.OriginatorID, req.RequestID)
		}
		if req.Deposit.IsPositive() {
			if _, err := txRepo.Debit(ctx, req.OriginatorID, req.Deposit); err != nil {
				return err
			}
			if _, err := txRepo.Credit(ctx, owner, req.Deposit); err != nil {
				return err
			}
		}
		return txRepo.Append(ctx, req)
	})
	if err != nil {
		switch {
		case domain.IsErrorCode(err, domain.ErrCodeDuplicateRequest):
			s.logger.Warn("duplicate request rejected",
				"originator_id", req.OriginatorID,
				"request_id", req.RequestID,
			)
		case domain.IsErrorCode(err, domain.ErrCodeInsufficientPayment):
			s.logger.Warn("deposit not covered by balance",
				"originator_id", req.OriginatorID,
				"request_id", req.RequestID,
				"deposit", req.Deposit.String(),
			)
		}
		return nil, err
	}

	s.logger.Info("request enqueued",
		"seq", req.Seq,
		"originator_id", req.OriginatorID,
		"request_id", req.RequestID,
		"data_key", req.DataKey,
		"data_item", req.DataItem,
	)
	return req, nil
}

// Credit adds a payment received from an account to its balance. Only the
// owner may call it.
func (s *RegistryService) Credit(ctx context.Context, call domain.CallContext, cmd CreditCommand) (decimal.Decimal, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return decimal.Zero, err
	}

	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, &domain.DomainError{
			Code:    domain.ErrCodeMissingRequiredField,
			Message: "amount must be a positive number",
			Err:     err,
		}
	}

	admission, err := s.admission(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err := admission.AuthorizeCredit(call); err != nil {
		s.logger.Warn("credit rejected",
			"caller", call.Caller,
			"account_id", cmd.AccountID,
		)
		return decimal.Zero, err
	}

	account := domain.AccountID(cmd.AccountID)
	var balance decimal.Decimal
	err = s.repo.WithTx(ctx, func(txRepo ports.RequestRepository) error {
		b, err := txRepo.Credit(ctx, account, amount)
		balance = b
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("balance credited",
		"account_id", account,
		"amount", amount.String(),
		"balance", balance.String(),
	)
	return balance, nil
}

// Balance returns the prepaid balance of an account.
func (s *RegistryService) Balance(ctx context.Context, account domain.AccountID) (decimal.Decimal, error) {
	if _, err := s.State(ctx); err != nil {
		return decimal.Zero, err
	}
	return s.repo.Balance(ctx, account)
}

func (s *RegistryService) Count(ctx context.Context) (int64, error) {
	if _, err := s.State(ctx); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx)
}

// List returns a snapshot of pending requests in arrival order. limit <= 0
// returns everything.
func (s *RegistryService) List(ctx context.Context, limit int) ([]*domain.Request, error) {
	if _, err := s.State(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, limit)
}

// Remove evicts the first pending request matching the correlation key. Only
// the owner may call it. A missing entry is a NOT_FOUND error, not a no-op.
func (s *RegistryService) Remove(ctx context.Context, call domain.CallContext, originator domain.AccountID, requestID domain.RequestID) (*domain.Request, error) {
	admission, err := s.admission(ctx)
	if err != nil {
		return nil, err
	}

	if err := admission.AuthorizeRemoval(call); err != nil {
		s.logger.Warn("remove rejected",
			"caller", call.Caller,
			"originator_id", originator,
			"request_id", requestID,
		)
		return nil, err
	}

	var removed *domain.Request
	err = s.repo.WithTx(ctx, func(txRepo ports.RequestRepository) error {
		r, err := txRepo.RemoveFirst(ctx, originator, requestID)
		if err != nil {
			return err
		}
		removed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("request removed",
		"seq", removed.Seq,
		"originator_id", originator,
		"request_id", requestID,
	)
	return removed, nil
}
