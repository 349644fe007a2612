package service

import (
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

// AdmissionControl holds the gatekeeping rules derived from the registry state.
type AdmissionControl struct {
	state *domain.RegistryState
}

func NewAdmissionControl(state *domain.RegistryState) *AdmissionControl {
	return &AdmissionControl{state: state}
}

// CheckPayment fails with INSUFFICIENT_PAYMENT when a minimum deposit is
// configured and the call attaches less. Whether the caller can actually pay
// the attached amount is settled against its balance when the entry is stored.
func (a *AdmissionControl) CheckPayment(call domain.CallContext) error {
	if !a.state.RequiresDeposit() {
		return nil
	}
	if call.AttachedDeposit.LessThan(a.state.MinDeposit) {
		return domain.NewInsufficientPaymentError(a.state.MinDeposit, call.AttachedDeposit)
	}
	return nil
}

// AuthorizeRemoval only lets the owner fixed at initialization remove entries.
func (a *AdmissionControl) AuthorizeRemoval(call domain.CallContext) error {
	return a.authorizeOwner(call, "remove")
}

// AuthorizeCredit only lets the owner record payments into balances.
func (a *AdmissionControl) AuthorizeCredit(call domain.CallContext) error {
	return a.authorizeOwner(call, "credit")
}

func (a *AdmissionControl) authorizeOwner(call domain.CallContext, operation string) error {
	if call.Caller == "" || call.Caller != a.state.OwnerID {
		return domain.NewUnauthorizedError(call.Caller, operation)
	}
	return nil
}

// Admit builds the registry entry for an enqueue call. The originator is the
// verified caller of the call.
func (a *AdmissionControl) Admit(call domain.CallContext, cmd EnqueueCommand, now time.Time) (*domain.Request, error) {
	if call.Caller == "" {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeUnauthorized,
			Message: "request requires an authenticated caller",
		}
	}
	if !domain.IsLocalCallbackRef(cmd.CallbackRef) {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeMissingRequiredField,
			Message: "callback_ref must name an entrypoint on the caller's own service",
		}
	}
	if err := a.CheckPayment(call); err != nil {
		return nil, err
	}
	return &domain.Request{
		OriginatorID: call.Caller,
		RequestID:    domain.RequestID(cmd.RequestID),
		DataKey:      cmd.DataKey,
		DataItem:     cmd.DataItem,
		CallbackRef:  cmd.CallbackRef,
		Deposit:      call.AttachedDeposit,
		CreatedAt:    now,
	}, nil
}
