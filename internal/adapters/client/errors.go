package client

import (
	"fmt"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

const (
	CodeUnexpectedResponse = "UNEXPECTED_RESPONSE"
	CodeInternal           = "INTERNAL_ERROR"
)

var domainCodes = map[string]bool{
	domain.ErrCodeInsufficientPayment:  true,
	domain.ErrCodeUnauthorized:         true,
	domain.ErrCodeUnauthorizedCallback: true,
	domain.ErrCodeNotFound:             true,
	domain.ErrCodeInvalidAmbientState:  true,
	domain.ErrCodeDuplicateRequest:     true,
	domain.ErrCodeMissingRequiredField: true,
}

// RemoteError is a failure reported by a relay endpoint.
type RemoteError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %s: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// Unwrap exposes domain codes so errors.Is(err, domain.ErrNotFound) holds on
// the calling side too.
func (e *RemoteError) Unwrap() error {
	if !domainCodes[e.Code] {
		return nil
	}
	return &domain.DomainError{Code: e.Code, Message: e.Message}
}

// Transient reports whether repeating the call may succeed.
func (e *RemoteError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429 || e.Code == CodeInternal
}
