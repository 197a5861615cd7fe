package http

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/DANCANKARANI/e-commerce/internal/cartsync"
	"github.com/DANCANKARANI/e-commerce/internal/checkout"
	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/remote"
	"github.com/DANCANKARANI/e-commerce/internal/session"
)

// MockCartAPI serves every credential from one in-memory authoritative cart.
type MockCartAPI struct {
	mu   sync.Mutex
	cart domain.Cart

	FetchErr  error
	CreateErr error

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
	if m.CreateErr != nil {
		return m.CreateErr
	}
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
	return &remote.SyncError{Op: "cart update", Status: 404, Message: "no line for product"}
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
	return &remote.SyncError{Op: "cart update", Status: 404, Message: "no such line"}
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
	m.cart.Lines = nil
	return nil
}

type MockOrderAPI struct {
	CreateErr   error
	CreateCalls int
}

func (m *MockOrderAPI) Create(_ context.Context, _ string, req remote.CreateOrderRequest, _ string) (*domain.Order, error) {
	m.CreateCalls++
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
	Declined bool
	Message  string
}

func (m *MockPaymentAPI) Charge(_ context.Context, _ remote.ChargeRequest) (*remote.ChargeResponse, error) {
	if m.Declined {
		return &remote.ChargeResponse{Success: false, Message: m.Message}, nil
	}
	return &remote.ChargeResponse{Success: true, Message: "STK push sent"}, nil
}

// fixture wires the full router the way the binary does, with the remote
// collaborators and redis replaced by test doubles.
type fixture struct {
	router   chi.Router
	cartAPI  *MockCartAPI
	orders   *MockOrderAPI
	payments *MockPaymentAPI
	mirror   *session.MirrorStore
	redis    *miniredis.Miniredis
}

func newFixture(t *testing.T, lines ...domain.CartLine) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cartAPI := NewMockCartAPI(lines...)
	orders := &MockOrderAPI{}
	payments := &MockPaymentAPI{}

	sessions := session.NewManager(func() *session.State {
		store := cartsync.NewStore(cartAPI)
		return &session.State{
			Cart:     store,
			Checkout: checkout.NewFlow(store, orders, payments),
		}
	})
	mirror := session.NewMirrorStore(client)

	cartHandler := NewCartHandler(sessions, mirror)
	checkoutHandler := NewCheckoutHandler(sessions)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{line_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{line_id}", cartHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetState)
			r.Post("/", checkoutHandler.Begin)
			r.Post("/address", checkoutHandler.SubmitAddress)
			r.Post("/payment", checkoutHandler.ConfirmPayment)
			r.Post("/reset", checkoutHandler.Reset)
		})
	})

	return &fixture{
		router:   r,
		cartAPI:  cartAPI,
		orders:   orders,
		payments: payments,
		mirror:   mirror,
		redis:    mr,
	}
}
