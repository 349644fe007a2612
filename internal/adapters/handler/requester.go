package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
)

// CallbackService is what the originator routes need from the core.
type CallbackService interface {
	HandleCallback(ctx context.Context, caller domain.AccountID, requestID domain.RequestID, errMsg string, payload domain.Payload) error
	LastResponse(ctx context.Context) (*domain.Response, error)
	ResponseFor(ctx context.Context, requestID domain.RequestID) (*domain.Response, error)
	ClearResponse(ctx context.Context) error
	CurrentID() uint64
	SetID(id uint64)
	MakeRequest(ctx context.Context, dataKey, dataItem string) (domain.RequestID, error)
}

type RequesterHandler struct {
	service CallbackService
	logger  *slog.Logger
}

func NewRequesterHandler(service CallbackService, logger *slog.Logger) *RequesterHandler {
	return &RequesterHandler{service: service, logger: logger}
}

func (h *RequesterHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /callback", h.HandleCallback)
	mux.HandleFunc("GET /response", h.HandleLastResponse)
	mux.HandleFunc("GET /responses/{requestID}", h.HandleResponseFor)
	mux.HandleFunc("DELETE /response/payload", h.HandleClearResponse)
	mux.HandleFunc("POST /make-request", h.HandleMakeRequest)
	mux.HandleFunc("GET /request-id", h.HandleCurrentID)
	mux.HandleFunc("PUT /request-id", h.HandleSetID)
}

type CallbackRequest struct {
	RequestID string         `json:"request_id"`
	Err       string         `json:"err"`
	Payload   domain.Payload `json:"payload"`
}

type MakeRequestRequest struct {
	DataKey  string `json:"data_key" example:"quotation"`
	DataItem string `json:"data_item" example:"BTC"`
}

type MakeRequestResponse struct {
	RequestID domain.RequestID `json:"request_id"`
}

type RequestIDBody struct {
	RequestID uint64 `json:"request_id"`
}

// HandleCallback godoc
// @Summary      Deliver a result
// @Description  Callback entrypoint. Only the configured deliverer identity is accepted.
// @Tags         requester
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        callback  body      CallbackRequest  true  "Delivered result"
// @Success      200       {object}  APIResponse
// @Failure      403       {object}  APIResponse{error=APIError}
// @Router       /callback [post]
func (h *RequesterHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	caller := middleware.CallerFrom(r.Context())
	err := h.service.HandleCallback(r.Context(), caller, domain.RequestID(req.RequestID), req.Err, req.Payload)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, nil)
}

// HandleLastResponse godoc
// @Summary      Latest delivered result
// @Tags         requester
// @Produce      json
// @Success      200  {object}  APIResponse{data=domain.Response}
// @Router       /response [get]
func (h *RequesterHandler) HandleLastResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.LastResponse(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// HandleResponseFor godoc
// @Summary      Result for one request id
// @Tags         requester
// @Produce      json
// @Param        requestID  path      string  true  "Request id"
// @Success      200        {object}  APIResponse{data=domain.Response}
// @Failure      404        {object}  APIResponse{error=APIError}
// @Router       /responses/{requestID} [get]
func (h *RequesterHandler) HandleResponseFor(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathParam(w, r, "requestID")
	if !ok {
		return
	}

	resp, err := h.service.ResponseFor(r.Context(), domain.RequestID(requestID))
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// HandleClearResponse godoc
// @Summary      Clear the latest payload
// @Description  Resets the latest payload to no data. The request id and error are kept.
// @Tags         requester
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /response/payload [delete]
func (h *RequesterHandler) HandleClearResponse(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearResponse(r.Context()); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nil)
}

// HandleMakeRequest godoc
// @Summary      Send a data request to the gateway
// @Tags         requester
// @Accept       json
// @Produce      json
// @Param        request  body      MakeRequestRequest  true  "Data to request"
// @Success      202      {object}  APIResponse{data=MakeRequestResponse}
// @Failure      400      {object}  APIResponse{error=APIError}
// @Router       /make-request [post]
func (h *RequesterHandler) HandleMakeRequest(w http.ResponseWriter, r *http.Request) {
	var req MakeRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	requestID, err := h.service.MakeRequest(r.Context(), req.DataKey, req.DataItem)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, MakeRequestResponse{RequestID: requestID})
}

// HandleCurrentID godoc
// @Summary      Current request counter
// @Tags         requester
// @Produce      json
// @Success      200  {object}  APIResponse{data=RequestIDBody}
// @Router       /request-id [get]
func (h *RequesterHandler) HandleCurrentID(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, RequestIDBody{RequestID: h.service.CurrentID()})
}

// HandleSetID godoc
// @Summary      Reset the request counter
// @Tags         requester
// @Accept       json
// @Produce      json
// @Param        body  body      RequestIDBody  true  "New counter value"
// @Success      200   {object}  APIResponse{data=RequestIDBody}
// @Router       /request-id [put]
func (h *RequesterHandler) HandleSetID(w http.ResponseWriter, r *http.Request) {
	var req RequestIDBody
	if err := decodeJSON(r, &req); err != nil {
		respondWithBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	h.service.SetID(req.RequestID)
	respondWithJSON(w, http.StatusOK, req)
}
