package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/docs"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve wraps mux in the same middleware chain the binaries use. Only the
// accounts in ids can authenticate.
func serve(t *testing.T, mux *http.ServeMux, ids *testhelpers.Identities) *httptest.Server {
	t.Helper()
	logger := quietLogger()

	doc, err := middleware.LoadSwagger([]byte(docs.SwaggerInfo.ReadDoc()))
	require.NoError(t, err)
	validate, err := middleware.ValidateRequests(doc)
	require.NoError(t, err)

	h := validate(http.Handler(mux))
	h = middleware.Authenticate(ids.Verifier(), logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Timeout(5*time.Second, logger)(h)
	h = middleware.Logging(logger)(h)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// fakeFeed answers GET /{key}/{item} like the diadata REST API. Items listed
// in failing return 500.
type fakeFeed struct {
	calls   atomic.Int64
	failing map[string]bool
}

func (f *fakeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	key, item := parts[0], parts[1]
	if f.failing[item] {
		http.Error(w, "feed unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch key {
	case "quotation":
		fmt.Fprintf(w, `{"Symbol":%q,"Name":"Bitcoin","Price":67000.5,"Source":"diadata.org","Time":"2026-10-19T00:00:00Z"}`, item)
	case "tradeVolume":
		fmt.Fprint(w, `1234.5`)
	default:
		http.NotFound(w, r)
	}
}

// TestClient wraps HTTP calls to the relay services.
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TestClient) Do(t *testing.T, method, path string, body any) (int, handler.APIResponse) {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out handler.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// Data re-decodes the envelope data into dst.
func Data(t *testing.T, resp handler.APIResponse, dst any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}
