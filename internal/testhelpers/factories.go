package testhelpers

import (
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewRequest returns a pending request for originator with a fresh request id.
func NewRequest(originator domain.AccountID) *domain.Request {
	return &domain.Request{
		OriginatorID: originator,
		RequestID:    domain.RequestID("req-" + uuid.New().String()),
		DataKey:      "Quote",
		DataItem:     "AAPL",
		CallbackRef:  "callback",
		Deposit:      decimal.NewFromInt(1),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}
