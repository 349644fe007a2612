package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
)

// FeedSource fetches data from a diadata style REST feed:
// GET {base}/{data_key}/{data_item}. The data key doubles as the payload kind.
type FeedSource struct {
	base
}

var _ ports.DataSource = (*FeedSource)(nil)

func NewFeedSource(baseURL string, options ...Option) *FeedSource {
	return &FeedSource{base: newBase(baseURL, options)}
}

func (f *FeedSource) Fetch(ctx context.Context, dataKey, dataItem string) (domain.Payload, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", f.baseURL, url.PathEscape(dataKey), url.PathEscape(dataItem))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = f.header.Clone()
	req.Header.Set("Accept", "application/json")

	res, err := f.httpClient.Do(req)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Payload{}, &RemoteError{
			Code:       CodeUnexpectedResponse,
			Message:    fmt.Sprintf("no %s data for %s", dataKey, dataItem),
			StatusCode: res.StatusCode,
		}
	default:
		return domain.Payload{}, &RemoteError{
			Code:       CodeUnexpectedResponse,
			Message:    "feed request failed",
			StatusCode: res.StatusCode,
		}
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("reading feed response: %w", err)
	}
	if !json.Valid(raw) {
		return domain.Payload{}, fmt.Errorf("feed returned invalid json for %s/%s", dataKey, dataItem)
	}

	return domain.Payload{Kind: domain.PayloadKind(dataKey), Data: json.RawMessage(raw)}, nil
}
