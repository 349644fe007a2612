package ports

import (
	"context"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RequestRepository defines the interface for the pending request registry storage
// and the prepaid balances that pay for it. Entries are kept in arrival order
// and never mutated in place.
type RequestRepository interface {
	Append(ctx context.Context, req *domain.Request) error
	Count(ctx context.Context) (int64, error)
	// List returns pending requests in arrival order. limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]*domain.Request, error)
	ExistsPending(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) (bool, error)
	// RemoveFirst deletes the earliest entry matching the correlation key and
	// returns it, or a NOT_FOUND domain error.
	RemoveFirst(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) (*domain.Request, error)

	// Balance returns the account's prepaid balance, zero for an unknown account.
	Balance(ctx context.Context, account domain.AccountID) (decimal.Decimal, error)
	// Credit adds amount to the account's balance and returns the new balance.
	Credit(ctx context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error)
	// Debit takes amount from the account's balance and returns what is left.
	// It fails with INSUFFICIENT_PAYMENT when the balance does not cover amount.
	Debit(ctx context.Context, account domain.AccountID, amount decimal.Decimal) (decimal.Decimal, error)

	// WithTx executes a function within a transaction. Nothing fn wrote is
	// kept if it returns an error.
	WithTx(ctx context.Context, fn func(RequestRepository) error) error
}

// StateRepository stores the registry's ambient state.
type StateRepository interface {
	// CreateState fails with INVALID_AMBIENT_STATE if the registry was already initialized.
	CreateState(ctx context.Context, state *domain.RegistryState) error
	// LoadState fails with INVALID_AMBIENT_STATE if the registry was never initialized.
	LoadState(ctx context.Context) (*domain.RegistryState, error)
}

// ResponseStore is the originator side store of delivered responses.
type ResponseStore interface {
	Put(ctx context.Context, resp *domain.Response) error
	// Latest returns the most recently stored response, or a response with
	// no data if nothing was delivered yet.
	Latest(ctx context.Context) (*domain.Response, error)
	Get(ctx context.Context, requestID domain.RequestID) (*domain.Response, error)
	// ClearPayload resets the latest payload to no data, keeping request id and error.
	ClearPayload(ctx context.Context) error
}
