package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

// CartAPI is the contract the synchronization core depends on.
type CartAPI interface {
	Fetch(ctx context.Context, credential string) (*domain.Cart, error)
	CreateLine(ctx context.Context, credential, productID string, quantity int, price float64) error
	UpdateProduct(ctx context.Context, credential, productID string, quantity int, price float64) error
	UpdateLine(ctx context.Context, credential, lineID string, quantity int) error
	RemoveLine(ctx context.Context, credential, lineID string) error
	Clear(ctx context.Context, credential, cartID string) error
}

// CartClient talks to the remote cart service over JSON/HTTP with bearer
// authentication.
type CartClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewCartClient(baseURL string, client *http.Client, timeout time.Duration) *CartClient {
	return &CartClient{
		baseURL: baseURL,
		client:  client,
		timeout: timeout,
	}
}

type lineBody struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

func (c *CartClient) Fetch(ctx context.Context, credential string) (*domain.Cart, error) {
	const op = "cart fetch"
	body, err := c.do(ctx, op, http.MethodGet, "/cart", credential, nil)
	if err != nil {
		return nil, err
	}
	return normalizeCart(op, body)
}

func (c *CartClient) CreateLine(ctx context.Context, credential, productID string, quantity int, price float64) error {
	_, err := c.do(ctx, "cart line create", http.MethodPost, "/cart/"+productID, credential,
		lineBody{Quantity: quantity, Price: price})
	return err
}

// UpdateProduct is the PUT-style idempotent update keyed by product, used
// when adding a product that is already in the cart.
func (c *CartClient) UpdateProduct(ctx context.Context, credential, productID string, quantity int, price float64) error {
	_, err := c.do(ctx, "cart line update", http.MethodPut, "/cart/"+productID, credential,
		lineBody{Quantity: quantity, Price: price})
	return err
}

func (c *CartClient) UpdateLine(ctx context.Context, credential, lineID string, quantity int) error {
	_, err := c.do(ctx, "cart quantity update", http.MethodPut, "/cart/"+lineID, credential,
		lineBody{Quantity: quantity})
	return err
}

func (c *CartClient) RemoveLine(ctx context.Context, credential, lineID string) error {
	_, err := c.do(ctx, "cart line remove", http.MethodDelete, "/cart/"+lineID+"/remove", credential, nil)
	return err
}

func (c *CartClient) Clear(ctx context.Context, credential, cartID string) error {
	_, err := c.do(ctx, "cart clear", http.MethodDelete, "/cart/"+cartID, credential, nil)
	return err
}

func (c *CartClient) do(ctx context.Context, op, method, path, credential string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.client.Do(req)
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
	return body, nil
}
