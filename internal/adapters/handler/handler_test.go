package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/memory"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/service"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner      domain.AccountID = "fetcher.near"
	originator domain.AccountID = "client.near"
	intruder   domain.AccountID = "intruder.near"
)

// identities registers every account the tests sign as.
func identities(t *testing.T) *testhelpers.Identities {
	return testhelpers.NewIdentities(t, owner, originator, intruder)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Mock services
type mockCallbackService struct {
	handleCallbackFn func(ctx context.Context, caller domain.AccountID, requestID domain.RequestID, errMsg string, payload domain.Payload) error
	lastResponseFn   func(ctx context.Context) (*domain.Response, error)
	responseForFn    func(ctx context.Context, requestID domain.RequestID) (*domain.Response, error)
	makeRequestFn    func(ctx context.Context, dataKey, dataItem string) (domain.RequestID, error)
	cleared          int
	id               uint64
}

func (m *mockCallbackService) HandleCallback(ctx context.Context, caller domain.AccountID, requestID domain.RequestID, errMsg string, payload domain.Payload) error {
	return m.handleCallbackFn(ctx, caller, requestID, errMsg, payload)
}

func (m *mockCallbackService) LastResponse(ctx context.Context) (*domain.Response, error) {
	return m.lastResponseFn(ctx)
}

func (m *mockCallbackService) ResponseFor(ctx context.Context, requestID domain.RequestID) (*domain.Response, error) {
	return m.responseForFn(ctx, requestID)
}

func (m *mockCallbackService) ClearResponse(ctx context.Context) error {
	m.cleared++
	return nil
}

func (m *mockCallbackService) CurrentID() uint64 { return m.id }

func (m *mockCallbackService) SetID(id uint64) { m.id = id }

func (m *mockCallbackService) MakeRequest(ctx context.Context, dataKey, dataItem string) (domain.RequestID, error) {
	return m.makeRequestFn(ctx, dataKey, dataItem)
}

// newGateway wires the registry routes over the memory adapters, behind the
// same authentication middleware the gateway binary uses.
func newGateway(t *testing.T, minDeposit string) (http.Handler, *service.RegistryService) {
	t.Helper()
	svc := service.NewRegistryService(memory.NewRequestRepository(), memory.NewStateRepository(), discardLogger())
	_, err := svc.Initialize(context.Background(), service.InitializeCommand{
		OwnerID:    string(owner),
		MinDeposit: minDeposit,
	})
	require.NoError(t, err)

	_, err = svc.Credit(context.Background(), domain.CallContext{Caller: owner},
		service.CreditCommand{AccountID: string(originator), Amount: "10"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewRegistryHandler(svc, discardLogger()).RegisterRoutes(mux)
	return middleware.Authenticate(identities(t).Verifier(), discardLogger())(mux), svc
}

func tokenFor(t *testing.T, subject domain.AccountID) string {
	t.Helper()
	return identities(t).Token(subject)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, caller domain.AccountID) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, caller))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp APIResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	return rr, resp
}

func enqueueBody(id, deposit string) map[string]string {
	return map[string]string{
		"request_id":   id,
		"data_key":     "quotation",
		"data_item":    "BTC",
		"callback_ref": "callback",
		"deposit":      deposit,
	}
}

func TestHandleEnqueue_Success(t *testing.T) {
	h, svc := newGateway(t, "1")

	rr, resp := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("101", "1"), originator)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, string(originator), data["originator_id"])
	assert.Equal(t, "101", data["request_id"])

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHandleEnqueue_OriginatorComesFromToken(t *testing.T) {
	h, svc := newGateway(t, "0")
	body := enqueueBody("7", "0")
	body["originator_id"] = "someone-else.near"

	rr, _ := doJSON(t, h, http.MethodPost, "/requests", body, originator)
	require.Equal(t, http.StatusCreated, rr.Code)

	list, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, originator, list[0].OriginatorID)
}

func TestHandleEnqueue_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]string
		caller   domain.AccountID
		status   int
		code     string
		prepared bool
	}{
		{"insufficient payment", enqueueBody("1", "0.5"), originator, http.StatusPaymentRequired, domain.ErrCodeInsufficientPayment, false},
		{"anonymous caller", enqueueBody("1", "1"), "", http.StatusForbidden, domain.ErrCodeUnauthorized, false},
		{"missing field", map[string]string{"request_id": "1", "data_key": "quotation", "callback_ref": "cb", "deposit": "1"}, originator, http.StatusBadRequest, domain.ErrCodeMissingRequiredField, false},
		{"duplicate pending", enqueueBody("1", "1"), originator, http.StatusConflict, domain.ErrCodeDuplicateRequest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newGateway(t, "1")
			if tt.prepared {
				rr, _ := doJSON(t, h, http.MethodPost, "/requests", tt.body, tt.caller)
				require.Equal(t, http.StatusCreated, rr.Code)
			}

			rr, resp := doJSON(t, h, http.MethodPost, "/requests", tt.body, tt.caller)

			assert.Equal(t, tt.status, rr.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleEnqueue_InvalidToken(t *testing.T) {
	h, _ := newGateway(t, "0")

	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), middleware.CodeUnauthenticated)
}

func TestHandleList_OrderAndLimit(t *testing.T) {
	h, _ := newGateway(t, "0")
	for _, id := range []string{"a", "b", "c"} {
		rr, _ := doJSON(t, h, http.MethodPost, "/requests", enqueueBody(id, "0"), originator)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr, resp := doJSON(t, h, http.MethodGet, "/requests?limit=2", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	items := resp.Data.([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].(map[string]any)["request_id"])
	assert.Equal(t, "b", items[1].(map[string]any)["request_id"])

	_, resp = doJSON(t, h, http.MethodGet, "/requests", nil, "")
	assert.Len(t, resp.Data.([]any), 3)
}

func TestHandleList_EmptyIsArray(t *testing.T) {
	h, _ := newGateway(t, "0")

	rr, _ := doJSON(t, h, http.MethodGet, "/requests", nil, "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rr.Body.String())
}

func TestHandleList_BadLimit(t *testing.T) {
	h, _ := newGateway(t, "0")

	rr, _ := doJSON(t, h, http.MethodGet, "/requests?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = doJSON(t, h, http.MethodGet, "/requests?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleCount(t *testing.T) {
	h, _ := newGateway(t, "0")
	rr, _ := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("1", "0"), originator)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, _ = doJSON(t, h, http.MethodGet, "/requests/count", nil, "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"count":1}}`, rr.Body.String())
}

func TestHandleRemove(t *testing.T) {
	h, svc := newGateway(t, "0")
	rr, _ := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("42", "0"), originator)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, resp := doJSON(t, h, http.MethodDelete, "/requests/client.near/42", nil, originator)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, domain.ErrCodeUnauthorized, resp.Error.Code)

	rr, resp = doJSON(t, h, http.MethodDelete, "/requests/client.near/42", nil, owner)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "42", resp.Data.(map[string]any)["request_id"])

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	rr, resp = doJSON(t, h, http.MethodDelete, "/requests/client.near/42", nil, owner)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, domain.ErrCodeNotFound, resp.Error.Code)
}

func TestHandleRemove_TokenSignedWithAnotherKey(t *testing.T) {
	h, svc := newGateway(t, "0")
	rr, _ := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("1", "0"), intruder)
	require.Equal(t, http.StatusCreated, rr.Code)

	// originator names the owner as subject but can only sign with its own key
	forged, _, err := auth.NewIssuer(testhelpers.AuthConfig, owner, testhelpers.SigningKey(t, originator)).Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/requests/intruder.near/1", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHandleRemove_RequestIDWithPercent(t *testing.T) {
	h, svc := newGateway(t, "0")
	rr, _ := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("50%off", "0"), originator)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, resp := doJSON(t, h, http.MethodDelete, "/requests/client.near/50%25off", nil, owner)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "50%off", resp.Data.(map[string]any)["request_id"])

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleEnqueue_UnbackedDeposit(t *testing.T) {
	h, svc := newGateway(t, "1")

	// funded with 10, states 1000
	rr, resp := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("1", "1000"), originator)
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.Equal(t, domain.ErrCodeInsufficientPayment, resp.Error.Code)

	// an account that was never credited cannot pay the minimum
	rr, _ = doJSON(t, h, http.MethodPost, "/requests", enqueueBody("1", "1"), intruder)
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleCreditAndBalance(t *testing.T) {
	h, _ := newGateway(t, "1")
	credit := map[string]string{"account_id": string(intruder), "amount": "2"}

	rr, resp := doJSON(t, h, http.MethodPost, "/balances", credit, intruder)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, domain.ErrCodeUnauthorized, resp.Error.Code)

	rr, _ = doJSON(t, h, http.MethodPost, "/balances", credit, owner)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"account_id":"intruder.near","balance":"2"}}`, rr.Body.String())

	rr, _ = doJSON(t, h, http.MethodPost, "/requests", enqueueBody("1", "1.5"), intruder)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, _ = doJSON(t, h, http.MethodGet, "/balances/intruder.near", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"account_id":"intruder.near","balance":"0.5"}}`, rr.Body.String())

	rr, _ = doJSON(t, h, http.MethodPost, "/balances", map[string]string{"account_id": string(intruder), "amount": "-1"}, owner)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleEnqueue_UninitializedRegistry(t *testing.T) {
	svc := service.NewRegistryService(memory.NewRequestRepository(), memory.NewStateRepository(), discardLogger())
	mux := http.NewServeMux()
	NewRegistryHandler(svc, discardLogger()).RegisterRoutes(mux)
	h := middleware.Authenticate(identities(t).Verifier(), discardLogger())(mux)

	rr, resp := doJSON(t, h, http.MethodPost, "/requests", enqueueBody("1", "0"), originator)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, domain.ErrCodeInvalidAmbientState, resp.Error.Code)
}

func newRequester(t *testing.T, svc CallbackService) http.Handler {
	mux := http.NewServeMux()
	NewRequesterHandler(svc, discardLogger()).RegisterRoutes(mux)
	return middleware.Authenticate(identities(t).Verifier(), discardLogger())(mux)
}

func TestHandleCallback_PassesVerifiedCaller(t *testing.T) {
	var gotCaller domain.AccountID
	var gotPayload domain.Payload
	svc := &mockCallbackService{
		handleCallbackFn: func(ctx context.Context, caller domain.AccountID, requestID domain.RequestID, errMsg string, payload domain.Payload) error {
			gotCaller = caller
			gotPayload = payload
			assert.Equal(t, domain.RequestID("101"), requestID)
			assert.Empty(t, errMsg)
			return nil
		},
	}

	body := map[string]any{
		"request_id": "101",
		"payload":    map[string]any{"kind": "tradeVolume", "data": 1200},
	}
	rr, resp := doJSON(t, newRequester(t, svc), http.MethodPost, "/callback", body, owner)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, owner, gotCaller)
	assert.Equal(t, domain.PayloadTradeVolume, gotPayload.Kind)
	assert.JSONEq(t, `1200`, string(gotPayload.Data))
}

func TestHandleCallback_Rejected(t *testing.T) {
	svc := &mockCallbackService{
		handleCallbackFn: func(ctx context.Context, caller domain.AccountID, requestID domain.RequestID, errMsg string, payload domain.Payload) error {
			return domain.NewUnauthorizedCallbackError(caller)
		},
	}

	rr, resp := doJSON(t, newRequester(t, svc), http.MethodPost, "/callback", map[string]any{"request_id": "1"}, intruder)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, domain.ErrCodeUnauthorizedCallback, resp.Error.Code)
}

func TestHandleResponses(t *testing.T) {
	stored := &domain.Response{RequestID: "101", Err: "feed down", Payload: domain.NoData()}
	svc := &mockCallbackService{
		lastResponseFn: func(ctx context.Context) (*domain.Response, error) { return stored, nil },
		responseForFn: func(ctx context.Context, requestID domain.RequestID) (*domain.Response, error) {
			if requestID == stored.RequestID {
				return stored, nil
			}
			return nil, domain.NewResponseNotFoundError(requestID)
		},
	}
	h := newRequester(t, svc)

	rr, resp := doJSON(t, h, http.MethodGet, "/response", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "feed down", resp.Data.(map[string]any)["err"])

	rr, _ = doJSON(t, h, http.MethodGet, "/responses/101", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, resp = doJSON(t, h, http.MethodGet, "/responses/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, domain.ErrCodeNotFound, resp.Error.Code)

	rr, resp = doJSON(t, h, http.MethodGet, "/responses/50%25off", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, resp.Error.Message, "50%off")
	assert.Equal(t, domain.ErrCodeNotFound, resp.Error.Code)

	rr, _ = doJSON(t, h, http.MethodDelete, "/response/payload", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, svc.cleared)
}

func TestHandleMakeRequest(t *testing.T) {
	svc := &mockCallbackService{
		makeRequestFn: func(ctx context.Context, dataKey, dataItem string) (domain.RequestID, error) {
			if dataKey == "" {
				return "", domain.NewMissingRequiredFieldError("data_key")
			}
			return "101", nil
		},
	}
	h := newRequester(t, svc)

	rr, resp := doJSON(t, h, http.MethodPost, "/make-request", map[string]string{"data_key": "quotation", "data_item": "BTC"}, "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "101", resp.Data.(map[string]any)["request_id"])

	rr, _ = doJSON(t, h, http.MethodPost, "/make-request", map[string]string{"data_item": "BTC"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleMakeRequest_GatewayFailureIsInternal(t *testing.T) {
	svc := &mockCallbackService{
		makeRequestFn: func(ctx context.Context, dataKey, dataItem string) (domain.RequestID, error) {
			return "", errors.New("connection refused")
		},
	}

	rr, resp := doJSON(t, newRequester(t, svc), http.MethodPost, "/make-request", map[string]string{"data_key": "quotation", "data_item": "BTC"}, "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, middleware.CodeInternal, resp.Error.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestHandleRequestID(t *testing.T) {
	svc := &mockCallbackService{id: 100}
	h := newRequester(t, svc)

	rr, _ := doJSON(t, h, http.MethodGet, "/request-id", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"request_id":100}}`, rr.Body.String())

	rr, _ = doJSON(t, h, http.MethodPut, "/request-id", map[string]uint64{"request_id": 500}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint64(500), svc.id)
}

func TestHandleHealth(t *testing.T) {
	healthy := NewHealthHandler(map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	}, discardLogger())
	mux := http.NewServeMux()
	healthy.RegisterRoutes(mux)

	rr, resp := doJSON(t, mux, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", resp.Data.(map[string]any)["status"])

	failing := NewHealthHandler(map[string]HealthCheck{
		"database": func(context.Context) error { return errors.New("down") },
	}, discardLogger())
	mux = http.NewServeMux()
	failing.RegisterRoutes(mux)

	rr, _ = doJSON(t, mux, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
