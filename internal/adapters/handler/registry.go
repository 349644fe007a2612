package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/service"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// RegistryService is what the registry routes need from the core.
type RegistryService interface {
	Enqueue(ctx context.Context, call domain.CallContext, cmd service.EnqueueCommand) (*domain.Request, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int) ([]*domain.Request, error)
	Remove(ctx context.Context, call domain.CallContext, originator domain.AccountID, requestID domain.RequestID) (*domain.Request, error)
	Credit(ctx context.Context, call domain.CallContext, cmd service.CreditCommand) (decimal.Decimal, error)
	Balance(ctx context.Context, account domain.AccountID) (decimal.Decimal, error)
}

type RegistryHandler struct {
	service RegistryService
	logger  *slog.Logger
}

func NewRegistryHandler(service RegistryService, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{service: service, logger: logger}
}

func (h *RegistryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /requests", h.HandleEnqueue)
	mux.HandleFunc("GET /requests/count", h.HandleCount)
	mux.HandleFunc("GET /requests", h.HandleList)
	mux.HandleFunc("DELETE /requests/{originatorID}/{requestID}", h.HandleRemove)
	mux.HandleFunc("POST /balances", h.HandleCredit)
	mux.HandleFunc("GET /balances/{accountID}", h.HandleBalance)
}

type EnqueueRequest struct {
	RequestID   string          `json:"request_id"`
	DataKey     string          `json:"data_key"`
	DataItem    string          `json:"data_item"`
	CallbackRef string          `json:"callback_ref"`
	Deposit     decimal.Decimal `json:"deposit" swaggertype:"string" example:"0.5"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type CreditRequest struct {
	AccountID string `json:"account_id" example:"client.near"`
	Amount    string `json:"amount" example:"10"`
}

type BalanceResponse struct {
	AccountID domain.AccountID `json:"account_id" swaggertype:"string"`
	Balance   decimal.Decimal  `json:"balance" swaggertype:"string" example:"9.5"`
}

// HandleEnqueue godoc
// @Summary      Submit a data request
// @Description  Appends a pending request for the calling originator. The attached deposit must cover the registry minimum and is paid from the originator's balance.
// @Tags         registry
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      EnqueueRequest  true  "Request arguments"
// @Success      201      {object}  APIResponse{data=domain.Request}
// @Failure      400      {object}  APIResponse{error=APIError}
// @Failure      402      {object}  APIResponse{error=APIError}
// @Failure      403      {object}  APIResponse{error=APIError}
// @Failure      409      {object}  APIResponse{error=APIError}
// @Failure      503      {object}  APIResponse{error=APIError}
// @Router       /requests [post]
func (h *RegistryHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	call := domain.CallContext{
		Caller:          middleware.CallerFrom(r.Context()),
		AttachedDeposit: req.Deposit,
	}
	cmd := service.EnqueueCommand{
		RequestID:   req.RequestID,
		DataKey:     req.DataKey,
		DataItem:    req.DataItem,
		CallbackRef: req.CallbackRef,
	}

	request, err := h.service.Enqueue(r.Context(), call, cmd)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, request)
}

// HandleCount godoc
// @Summary      Count pending requests
// @Tags         registry
// @Produce      json
// @Success      200  {object}  APIResponse{data=CountResponse}
// @Router       /requests/count [get]
func (h *RegistryHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, CountResponse{Count: count})
}

// HandleList godoc
// @Summary      List pending requests
// @Description  Returns pending requests in arrival order. Without a limit every pending request is returned.
// @Tags         registry
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of entries"  minimum(0)
// @Success      200    {object}  APIResponse{data=[]domain.Request}
// @Failure      400    {object}  APIResponse{error=APIError}
// @Router       /requests [get]
func (h *RegistryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		respondWithBadRequest(w, err.Error())
		return
	}
	if limit < 0 {
		respondWithBadRequest(w, "limit must not be negative")
		return
	}

	requests, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	if requests == nil {
		requests = []*domain.Request{}
	}

	respondWithJSON(w, http.StatusOK, requests)
}

// HandleRemove godoc
// @Summary      Remove a pending request
// @Description  Deletes the earliest entry with the given correlation key. Only the registry owner may call it.
// @Tags         registry
// @Produce      json
// @Security     BearerAuth
// @Param        originatorID  path      string  true  "Originator identity"
// @Param        requestID     path      string  true  "Originator request id"
// @Success      200           {object}  APIResponse{data=domain.Request}
// @Failure      403           {object}  APIResponse{error=APIError}
// @Failure      404           {object}  APIResponse{error=APIError}
// @Router       /requests/{originatorID}/{requestID} [delete]
func (h *RegistryHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	originatorID, ok := pathParam(w, r, "originatorID")
	if !ok {
		return
	}
	requestID, ok := pathParam(w, r, "requestID")
	if !ok {
		return
	}

	call := domain.CallContext{Caller: middleware.CallerFrom(r.Context())}
	removed, err := h.service.Remove(r.Context(), call, domain.AccountID(originatorID), domain.RequestID(requestID))
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, removed)
}

// HandleCredit godoc
// @Summary      Credit a prepaid balance
// @Description  Records a payment received from an account. Only the registry owner may call it.
// @Tags         balances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreditRequest  true  "Account and amount"
// @Success      200      {object}  APIResponse{data=BalanceResponse}
// @Failure      400      {object}  APIResponse{error=APIError}
// @Failure      403      {object}  APIResponse{error=APIError}
// @Router       /balances [post]
func (h *RegistryHandler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	call := domain.CallContext{Caller: middleware.CallerFrom(r.Context())}
	balance, err := h.service.Credit(r.Context(), call, service.CreditCommand{
		AccountID: req.AccountID,
		Amount:    req.Amount,
	})
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BalanceResponse{
		AccountID: domain.AccountID(req.AccountID),
		Balance:   balance,
	})
}

// HandleBalance godoc
// @Summary      Prepaid balance of an account
// @Tags         balances
// @Produce      json
// @Param        accountID  path      string  true  "Account identity"
// @Success      200        {object}  APIResponse{data=BalanceResponse}
// @Router       /balances/{accountID} [get]
func (h *RegistryHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathParam(w, r, "accountID")
	if !ok {
		return
	}

	balance, err := h.service.Balance(r.Context(), domain.AccountID(accountID))
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BalanceResponse{
		AccountID: domain.AccountID(accountID),
		Balance:   balance,
	})
}
