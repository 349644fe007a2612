package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so callers can test
// against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Domain error codes
const (
	ErrCodeInsufficientPayment  = "INSUFFICIENT_PAYMENT"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeUnauthorizedCallback = "UNAUTHORIZED_CALLBACK"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInvalidAmbientState  = "INVALID_AMBIENT_STATE"
	ErrCodeDuplicateRequest     = "DUPLICATE_REQUEST"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
)

// Sentinels for errors.Is. They carry only the code.
var (
	ErrInsufficientPayment  = &DomainError{Code: ErrCodeInsufficientPayment, Message: "insufficient payment"}
	ErrUnauthorized         = &DomainError{Code: ErrCodeUnauthorized, Message: "unauthorized"}
	ErrUnauthorizedCallback = &DomainError{Code: ErrCodeUnauthorizedCallback, Message: "unauthorized callback"}
	ErrNotFound             = &DomainError{Code: ErrCodeNotFound, Message: "request not found"}
	ErrInvalidAmbientState  = &DomainError{Code: ErrCodeInvalidAmbientState, Message: "invalid ambient state"}
	ErrDuplicateRequest     = &DomainError{Code: ErrCodeDuplicateRequest, Message: "duplicate request"}
	ErrMissingRequiredField = &DomainError{Code: ErrCodeMissingRequiredField, Message: "missing required field"}
)

func NewInsufficientPaymentError(required, attached decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientPayment,
		Message: fmt.Sprintf("the required attached deposit is %s, but the given attached deposit is %s", required, attached),
	}
}

func NewInsufficientBalanceError(account AccountID, balance, amount decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    ErrCodeInsufficientPayment,
		Message: fmt.Sprintf("balance of %s is %s, which does not cover the attached deposit of %s", account, balance, amount),
	}
}

func NewUnauthorizedError(caller AccountID, operation string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: fmt.Sprintf("%s can only be called by the owner, caller is %q", operation, caller),
	}
}

func NewUnauthorizedCallbackError(caller AccountID) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnauthorizedCallback,
		Message: fmt.Sprintf("callback from %q is not from the authorized deliverer", caller),
	}
}

func NewNotFoundError(originator AccountID, requestID RequestID) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no pending request %s for originator %s", requestID, originator),
	}
}

func NewResponseNotFoundError(requestID RequestID) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no response stored for request %s", requestID),
	}
}

func NewInvalidAmbientStateError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmbientState,
		Message: reason,
	}
}

func NewDuplicateRequestError(originator AccountID, requestID RequestID) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateRequest,
		Message: fmt.Sprintf("request %s from %s is already pending", requestID, originator),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
