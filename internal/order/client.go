package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
	"github.com/KamilKorczek/project-pizzeria/pkg/api/apiconnect"
)

// ErrSubmitFailed wraps every transport or backend failure during submission.
var ErrSubmitFailed = errors.New("order submission failed")

// Submitter sends a payload to the backend. Each call yields exactly one
// outcome: the opaque response body, or an error.
type Submitter interface {
	Submit(ctx context.Context, idempotencyKey string, payload models.OrderPayload) (json.RawMessage, error)
}

// Client submits orders over the Connect JSON protocol. Timeouts and retries
// are configured on the http.Client and the context, not here.
type Client struct {
	submit *connect.Client[models.OrderPayload, json.RawMessage]
}

var _ Submitter = (*Client)(nil)

// NewClient creates a submitter for the backend at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		submit: apiconnect.NewRawSubmitClient[json.RawMessage](httpClient, baseURL, opts...),
	}
}

// Submit posts the payload. The key, when non-empty, is sent in the
// Idempotency-Key header so a retried submission does not create a second order.
func (c *Client) Submit(ctx context.Context, idempotencyKey string, payload models.OrderPayload) (json.RawMessage, error) {
	req := connect.NewRequest(&payload)
	if idempotencyKey != "" {
		req.Header().Set(apiconnect.IdempotencyKeyHeader, idempotencyKey)
	}

	res, err := c.submit.CallUnary(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	if res.Msg == nil {
		return nil, nil
	}
	return *res.Msg, nil
}
