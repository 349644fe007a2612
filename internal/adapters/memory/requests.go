// Package memory provides in-process implementations of the storage ports.
// State lives as long as the process.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/shopspring/decimal"
)

type requestLog struct {
	entries  []domain.Request
	nextSeq  int64
	balances map[domain.AccountID]decimal.Decimal
}

func (l requestLog) clone() requestLog {
	entries := make([]domain.Request, len(l.entries))
	copy(entries, l.entries)
	return requestLog{entries: entries, nextSeq: l.nextSeq, balances: maps.Clone(l.balances)}
}

// RequestRepository keeps pending requests in a slice in arrival order.
type RequestRepository struct {
	mu  sync.Mutex
	log requestLog
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{log: requestLog{
		nextSeq:  1,
		balances: make(map[domain.AccountID]decimal.Decimal),
	}}
}

func (r *RequestRepository) Append(ctx context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).Append(ctx, req)
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).Count(ctx)
}

func (r *RequestRepository) List(ctx context.Context, limit int) ([]*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).List(ctx, limit)
}

func (r *RequestRepository) ExistsPending(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).ExistsPending(ctx, originator, requestID)
}

func (r *RequestRepository) RemoveFirst(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).RemoveFirst(ctx, originator, requestID)
}

func (r *RequestRepository) Balance(ctx context.Context, account domain.AccountID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).Balance(ctx, account)
}

func (r *RequestRepository) Credit(ctx context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).Credit(ctx, account, amount)
}

func (r *RequestRepository) Debit(ctx context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&requestTx{log: &r.log}).Debit(ctx, account, amount)
}

// WithTx runs fn against a private copy of the log and swaps it in only if fn
// succeeds. Calls are serialized for the duration of fn.
func (r *RequestRepository) WithTx(ctx context.Context, fn func(ports.RequestRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	work := r.log.clone()
	if err := fn(&requestTx{log: &work}); err != nil {
		return err
	}
	r.log = work
	return nil
}

// requestTx operates on a log without locking; the owner holds the lock.
type requestTx struct {
	log *requestLog
}

func (t *requestTx) Append(_ context.Context, req *domain.Request) error {
	req.Seq = t.log.nextSeq
	t.log.nextSeq++
	t.log.entries = append(t.log.entries, *req)
	return nil
}

func (t *requestTx) Count(_ context.Context) (int64, error) {
	return int64(len(t.log.entries)), nil
}

func (t *requestTx) List(_ context.Context, limit int) ([]*domain.Request, error) {
	n := len(t.log.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*domain.Request, 0, n)
	for i := 0; i < n; i++ {
		req := t.log.entries[i]
		out = append(out, &req)
	}
	return out, nil
}

func (t *requestTx) ExistsPending(_ context.Context, originator domain.AccountID, requestID domain.RequestID) (bool, error) {
	return t.indexOf(originator, requestID) >= 0, nil
}

func (t *requestTx) RemoveFirst(_ context.Context, originator domain.AccountID, requestID domain.RequestID) (*domain.Request, error) {
	i := t.indexOf(originator, requestID)
	if i < 0 {
		return nil, domain.NewNotFoundError(originator, requestID)
	}
	removed := t.log.entries[i]
	t.log.entries = append(t.log.entries[:i], t.log.entries[i+1:]...)
	return &removed, nil
}

func (t *requestTx) Balance(_ context.Context, account domain.AccountID) (decimal.Decimal, error) {
	return t.log.balances[account], nil
}

func (t *requestTx) Credit(_ context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	balance := t.log.balances[account].Add(amount)
	t.log.balances[account] = balance
	return balance, nil
}

func (t *requestTx) Debit(_ context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	balance := t.log.balances[account]
	if balance.LessThan(amount) {
		return balance, domain.NewInsufficientBalanceError(account, balance, amount)
	}
	balance = balance.Sub(amount)
	t.log.balances[account] = balance
	return balance, nil
}

func (t *requestTx) WithTx(_ context.Context, fn func(ports.RequestRepository) error) error {
	return fn(t)
}

func (t *requestTx) indexOf(originator domain.AccountID, requestID domain.RequestID) int {
	for i := range t.log.entries {
		if t.log.entries[i].Matches(originator, requestID) {
			return i
		}
	}
	return -1
}
