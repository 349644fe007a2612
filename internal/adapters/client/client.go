package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=client_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a client.
type Option func(*base)

type base struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
}

func newBase(baseURL string, options []Option) base {
	b := base{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(&b)
	}
	return b
}

// WithHTTPClient sets the HTTP client requests go through. Use an
// auth.Issuer client to present an identity.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(b *base) {
		b.httpClient = httpClient
	}
}

// WithHeader adds headers sent with each request.
func WithHeader(header http.Header) Option {
	return func(b *base) {
		for key, values := range header {
			for _, value := range values {
				b.header.Add(key, value)
			}
		}
	}
}

// envelope is the body shape every relay endpoint answers with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sendRequest is a generic helper for JSON calls against relay endpoints.
// A nil body sends no payload; Resp is decoded from the envelope's data.
func sendRequest[Req any, Resp any](ctx context.Context, b *base, method, url string, body *Req) (*Resp, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for key, values := range b.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &RemoteError{
				Code:       CodeUnexpectedResponse,
				Message:    string(raw),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		remote := &RemoteError{StatusCode: resp.StatusCode, Code: CodeUnexpectedResponse}
		if env.Error != nil {
			remote.Code = env.Error.Code
			remote.Message = env.Error.Message
		}
		return nil, remote
	}

	var out Resp
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("error decoding response data: %w", err)
	}
	return &out, nil
}
