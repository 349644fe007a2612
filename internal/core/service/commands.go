package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/go-playground/validator"
)

// EnqueueCommand is what an originator submits. The originator identity and
// the attached deposit come from the CallContext, never from here.
type EnqueueCommand struct {
	RequestID   string `json:"request_id" validate:"required,max=128"`
	DataKey     string `json:"data_key" validate:"required,max=64"`
	DataItem    string `json:"data_item" validate:"required,max=256"`
	CallbackRef string `json:"callback_ref" validate:"required,max=512"`
}

// CreditCommand records a payment received from an account.
type CreditCommand struct {
	AccountID string `json:"account_id" validate:"required,max=64"`
	Amount    string `json:"amount" validate:"required,numeric"`
}

type InitializeCommand struct {
	OwnerID    string `json:"owner_id" validate:"required,max=64"`
	MinDeposit string `json:"min_deposit" validate:"omitempty,numeric"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateCommand turns validator failures into MISSING_REQUIRED_FIELD errors
// naming the first offending field.
func validateCommand(v *validator.Validate, cmd any) error {
	err := v.Struct(cmd)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return domain.NewMissingRequiredFieldError(fe.Field())
		}
		return &domain.DomainError{
			Code:    domain.ErrCodeMissingRequiredField,
			Message: fe.Field() + " is invalid (" + fe.Tag() + ")",
		}
	}
	return err
}
