package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/remote"
)

// MockCartAPI backs a cartsync.Store with an in-memory authoritative cart so
// flow tests can observe what a checkout does to the server-side cart.
type MockCartAPI struct {
	mu   sync.Mutex
	cart domain.Cart

	FetchErr error
	ClearErr error

	ClearCalls int
}

func NewMockCartAPI(lines ...domain.CartLine) *MockCartAPI {
	return &MockCartAPI{cart: domain.Cart{ID: "cart-1", Lines: lines}}
}

func (m *MockCartAPI) ServerCart() *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

func (m *MockCartAPI) Fetch(_ context.Context, _ string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.cart.Clone(), nil
}

func (m *MockCartAPI) CreateLine(_ context.Context, _, productID string, quantity int, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart.Lines = append(m.cart.Lines, domain.CartLine{
		LineID:    fmt.Sprintf("line-%s", productID),
		ProductID: productID,
		UnitPrice: price,
		Quantity:  quantity,
	})
	return nil
}

func (m *MockCartAPI) UpdateProduct(_ context.Context, _, productID string, quantity int, _ float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cart.Lines {
		if m.cart.Lines[i].ProductID == productID {
			m.cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("no line for product %s", productID)
}

func (m *MockCartAPI) UpdateLine(_ context.Context, _, lineID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cart.Lines {
		if m.cart.Lines[i].LineID == lineID {
			m.cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("no line %s", lineID)
}

func (m *MockCartAPI) RemoveLine(_ context.Context, _, lineID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.cart.Lines[:0]
	for _, l := range m.cart.Lines {
		if l.LineID != lineID {
			kept = append(kept, l)
		}
	}
	m.cart.Lines = kept
	return nil
}

func (m *MockCartAPI) Clear(_ context.Context, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.cart.Lines = nil
	return nil
}

type MockOrderAPI struct {
	CreateErr error

	CreateCalls int
	LastRequest remote.CreateOrderRequest
	LastKey     string
	Keys        []string
}

func (m *MockOrderAPI) Create(_ context.Context, _ string, req remote.CreateOrderRequest, idempotencyKey string) (*domain.Order, error) {
	m.CreateCalls++
	m.LastRequest = req
	m.LastKey = idempotencyKey
	m.Keys = append(m.Keys, idempotencyKey)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return &domain.Order{
		OrderID:         "ord-1",
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}, nil
}

type MockPaymentAPI struct {
	ChargeErr error
	Declined  bool
	Message   string

	ChargeCalls int
	LastRequest remote.ChargeRequest
}

func (m *MockPaymentAPI) Charge(_ context.Context, req remote.ChargeRequest) (*remote.ChargeResponse, error) {
	m.ChargeCalls++
	m.LastRequest = req
	if m.ChargeErr != nil {
		return nil, m.ChargeErr
	}
	if m.Declined {
		return &remote.ChargeResponse{Success: false, Message: m.Message}, nil
	}
	return &remote.ChargeResponse{Success: true, Message: "STK push sent"}, nil
}
