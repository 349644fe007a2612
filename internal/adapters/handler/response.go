package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

func respondWithError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var domainErr *domain.DomainError
	code := middleware.CodeInternal
	message := "internal server error"
	status := http.StatusInternalServerError

	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Error()

		switch domainErr.Code {
		case domain.ErrCodeMissingRequiredField:
			status = http.StatusBadRequest
		case domain.ErrCodeInsufficientPayment:
			status = http.StatusPaymentRequired
		case domain.ErrCodeUnauthorized, domain.ErrCodeUnauthorizedCallback:
			status = http.StatusForbidden
		case domain.ErrCodeNotFound:
			status = http.StatusNotFound
		case domain.ErrCodeDuplicateRequest:
			status = http.StatusConflict
		case domain.ErrCodeInvalidAmbientState:
			status = http.StatusServiceUnavailable
		default:
			status = http.StatusBadRequest
		}
	} else {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
			"error", err,
		)
	}

	respondWithJSON(w, status, &APIError{
		Code:    code,
		Message: message,
	})
}

func respondWithBadRequest(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusBadRequest, &APIError{
		Code:    middleware.CodeValidation,
		Message: message,
	})
}

// pathParam returns a path segment as the mux decoded it. The value is not
// unescaped again, so ids containing '%' round trip unchanged.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		respondWithBadRequest(w, name+" is required")
		return "", false
	}
	return value, true
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
