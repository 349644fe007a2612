package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
)

// GatewayClient talks to the registry service. Originators use Enqueue, the
// fetcher uses List and Remove.
type GatewayClient struct {
	base
}

var (
	_ ports.GatewayClient  = (*GatewayClient)(nil)
	_ ports.RegistryClient = (*GatewayClient)(nil)
)

func NewGatewayClient(baseURL string, options ...Option) *GatewayClient {
	return &GatewayClient{base: newBase(baseURL, options)}
}

func (c *GatewayClient) Enqueue(ctx context.Context, args ports.RequestArgs) error {
	_, err := sendRequest[ports.RequestArgs, domain.Request](
		ctx, &c.base, http.MethodPost, c.baseURL+"/requests", &args,
	)
	return err
}

func (c *GatewayClient) Count(ctx context.Context) (int64, error) {
	resp, err := sendRequest[struct{}, countResponse](
		ctx, &c.base, http.MethodGet, c.baseURL+"/requests/count", nil,
	)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// List returns up to limit pending requests in arrival order; limit <= 0
// returns all of them.
func (c *GatewayClient) List(ctx context.Context, limit int) ([]*domain.Request, error) {
	endpoint := c.baseURL + "/requests"
	if limit > 0 {
		endpoint += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	resp, err := sendRequest[struct{}, []*domain.Request](
		ctx, &c.base, http.MethodGet, endpoint, nil,
	)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

func (c *GatewayClient) Remove(ctx context.Context, originator domain.AccountID, requestID domain.RequestID) error {
	endpoint := fmt.Sprintf("%s/requests/%s/%s",
		c.baseURL,
		url.PathEscape(string(originator)),
		url.PathEscape(string(requestID)),
	)
	_, err := sendRequest[struct{}, domain.Request](
		ctx, &c.base, http.MethodDelete, endpoint, nil,
	)
	return err
}

type countResponse struct {
	Count int64 `json:"count"`
}
