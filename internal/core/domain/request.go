// Package domain defines the domain models for the oracle relay gateway.
package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountID identifies a service taking part in the relay: an originator,
// the registry owner or a fetcher.
type AccountID string

// RequestID is the originator's correlation token. It is opaque to the
// registry and only unique inside one originator's namespace.
type RequestID string

// Request is a pending data request held by the registry until a fetcher
// delivers its result and removes it.
type Request struct {
	Seq          int64           `json:"seq"`
	OriginatorID AccountID       `json:"originator_id"`
	RequestID    RequestID       `json:"request_id"`
	DataKey      string          `json:"data_key"`
	DataItem     string          `json:"data_item"`
	CallbackRef  string          `json:"callback_ref"`
	Deposit      decimal.Decimal `json:"deposit" swaggertype:"string"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Matches reports whether r is identified by the correlation key (originator, requestID).
func (r *Request) Matches(originator AccountID, requestID RequestID) bool {
	return r.OriginatorID == originator && r.RequestID == requestID
}

// IsLocalCallbackRef reports whether ref names an entrypoint on the
// originator's own service. Refs carrying a scheme or a host are not local.
func IsLocalCallbackRef(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && u.User == nil && !strings.HasPrefix(ref, "//")
}

// CallContext carries the verified identity of the caller and the payment
// attached to the call. Every registry operation receives one.
type CallContext struct {
	Caller          AccountID
	AttachedDeposit decimal.Decimal
}

// RegistryState is the ambient state fixed when the registry is initialized.
// OwnerID never changes afterwards.
type RegistryState struct {
	OwnerID       AccountID
	MinDeposit    decimal.Decimal
	InitializedAt time.Time
}

// RequiresDeposit reports whether admission needs to check the attached payment.
func (s *RegistryState) RequiresDeposit() bool {
	return s.MinDeposit.IsPositive()
}
