package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

type PaymentAPI interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}

type ChargeRequest struct {
	Cost             float64 `json:"cost"`
	CustomerPhone    string  `json:"customer_phone"`
	AccountReference string  `json:"account_reference"`
}

type ChargeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaymentClient initiates a mobile-money charge. Provider declines come
// back in the response body, not as an error; settlement and retry
// semantics stay with the provider.
type PaymentClient struct {
	baseURL          string
	client           *http.Client
	timeout          time.Duration
	accountReference string
}

func NewPaymentClient(baseURL, accountReference string, client *http.Client, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		baseURL:          baseURL,
		client:           client,
		timeout:          timeout,
		accountReference: accountReference,
	}
}

func (c *PaymentClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	const op = "payment charge"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if req.AccountReference == "" {
		req.AccountReference = c.accountReference
	}
	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, &SyncError{Op: op, Message: "could not encode charge"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(encoded))
	if err != nil {
		return nil, &SyncError{Op: op, Message: "could not build charge request"}
	}
	httpReq.Header.Set("Content-Type", "application/json")

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

	var payload ChargeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &SyncError{Op: op, Status: resp.StatusCode, Message: "malformed charge payload"}
	}
	return &payload, nil
}
