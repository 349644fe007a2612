package ports

import (
	"context"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DataSource performs the out-of-band fetch for a (data key, data item) pair.
type DataSource interface {
	Fetch(ctx context.Context, dataKey, dataItem string) (domain.Payload, error)
}

// Deliverer invokes the originator's callback entrypoint with a result.
type Deliverer interface {
	Deliver(ctx context.Context, req *domain.Request, resp *domain.Response) error
}

// RegistryClient is the fetcher's view of the pending request registry.
type RegistryClient interface {
	List(ctx context.Context, limit int) ([]*domain.Request, error)
	Remove(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) error
}

// RequestArgs are the arguments an originator sends to the registry.
type RequestArgs struct {
	RequestID   domain.RequestID `json:"request_id"`
	DataKey     string           `json:"data_key"`
	DataItem    string           `json:"data_item"`
	CallbackRef string           `json:"callback_ref"`
	Deposit     decimal.Decimal  `json:"deposit"`
}

// GatewayClient is the originator's view of the pending request registry.
type GatewayClient interface {
	Enqueue(ctx context.Context, args RequestArgs) error
}
