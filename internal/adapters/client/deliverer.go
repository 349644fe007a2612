package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
)

// ErrForeignCallback is returned for a callback ref that names a host instead
// of an entrypoint on the originator's own service.
var ErrForeignCallback = errors.New("callback ref must be a path on the originator's service")

// CallbackDeliverer posts results to the originator's callback entrypoint.
// The address always comes from the directory entry of the verified
// originator; the callback ref only selects the path under it.
type CallbackDeliverer struct {
	base
	directory map[domain.AccountID]string
}

var _ ports.Deliverer = (*CallbackDeliverer)(nil)

func NewCallbackDeliverer(directory map[string]string, options ...Option) *CallbackDeliverer {
	dir := make(map[domain.AccountID]string, len(directory))
	for originator, baseURL := range directory {
		dir[domain.AccountID(originator)] = strings.TrimRight(baseURL, "/")
	}
	return &CallbackDeliverer{
		base:      newBase("", options),
		directory: dir,
	}
}

func (d *CallbackDeliverer) Deliver(ctx context.Context, req *domain.Request, resp *domain.Response) error {
	endpoint, err := d.resolve(req)
	if err != nil {
		return err
	}

	body := callbackBody{
		RequestID: resp.RequestID,
		Err:       resp.Err,
		Payload:   resp.Payload,
	}
	_, err = sendRequest[callbackBody, struct{}](ctx, &d.base, http.MethodPost, endpoint, &body)
	return err
}

func (d *CallbackDeliverer) resolve(req *domain.Request) (string, error) {
	if !domain.IsLocalCallbackRef(req.CallbackRef) {
		return "", fmt.Errorf("%w: %q", ErrForeignCallback, req.CallbackRef)
	}
	ref, err := url.Parse(req.CallbackRef)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignCallback, err)
	}

	baseURL, ok := d.directory[req.OriginatorID]
	if !ok {
		return "", fmt.Errorf("no callback address known for originator %s", req.OriginatorID)
	}
	endpoint, err := url.JoinPath(baseURL, ref.Path)
	if err != nil {
		return "", fmt.Errorf("join callback path: %w", err)
	}
	return endpoint, nil
}

type callbackBody struct {
	RequestID domain.RequestID `json:"request_id"`
	Err       string           `json:"err"`
	Payload   domain.Payload   `json:"payload"`
}
