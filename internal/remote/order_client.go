package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

type OrderAPI interface {
	Create(ctx context.Context, credential string, req CreateOrderRequest, idempotencyKey string) (*domain.Order, error)
}

type CreateOrderRequest struct {
	Items           []domain.OrderItem `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

type createOrderResponse struct {
	ID      string          `json:"id"`
	OrderID string          `json:"order_id"`
	Data    json.RawMessage `json:"data"`
}

// OrderClient posts orders to the remote order service. A non-2xx answer
// carries the server's "error" field, surfaced verbatim to the user.
type OrderClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewOrderClient(baseURL string, client *http.Client, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		client:  client,
		timeout: timeout,
	}
}

func (c *OrderClient) Create(ctx context.Context, credential string, req CreateOrderRequest, idempotencyKey string) (*domain.Order, error) {
	const op = "order create"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, &SyncError{Op: op, Message: "could not encode order"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(encoded))
	if err != nil {
		return nil, &SyncError{Op: op, Message: "could not build order request"}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SyncError{Op: op, Status: resp.StatusCode, Message: remoteMessage(body)}
	}

	var payload createOrderResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &SyncError{Op: op, Status: resp.StatusCode, Message: "malformed order payload"}
	}
	if len(payload.Data) > 0 {
		var nested createOrderResponse
		if err := json.Unmarshal(payload.Data, &nested); err == nil {
			if nested.ID != "" || nested.OrderID != "" {
				payload = nested
			}
		}
	}

	orderID := payload.OrderID
	if orderID == "" {
		orderID = payload.ID
	}

	return &domain.Order{
		OrderID:         orderID,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       time.Now(),
	}, nil
}
