package cartsync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

// MockCartAPI implements remote.CartAPI against an in-memory authoritative
// cart, so tests can compare the store's mirror with "server truth".
type MockCartAPI struct {
	mu   sync.Mutex
	cart domain.Cart

	FetchErr  error
	CreateErr error
	UpdateErr error
	RemoveErr error
	ClearErr  error

	FetchCalls  int
	CreateCalls int
	UpdateCalls int
	RemoveCalls int
	ClearCalls  int

	// Gate, when set, blocks mutations until released, to simulate a slow
	// in-flight request. Entered receives a signal when a mutation reaches
	// the gate.
	Gate    chan struct{}
	Entered chan struct{}

	// FetchGate, when set, stalls the first fetch after its snapshot is
	// taken; FetchEntered receives a signal when that fetch reaches the
	// gate. Later fetches pass through.
	FetchGate    chan struct{}
	FetchEntered chan struct{}
	fetchGated   atomic.Bool
}

func NewMockCartAPI() *MockCartAPI {
	return &MockCartAPI{cart: domain.Cart{ID: "cart-1"}}
}

func (m *MockCartAPI) ServerCart() *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

func (m *MockCartAPI) waitGate() {
	if m.Gate == nil {
		return
	}
	if m.Entered != nil {
		select {
		case m.Entered <- struct{}{}:
		default:
		}
	}
	<-m.Gate
}

func (m *MockCartAPI) Fetch(_ context.Context, _ string) (*domain.Cart, error) {
	m.mu.Lock()
	m.FetchCalls++
	err := m.FetchErr
	cart := m.cart.Clone()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if m.FetchGate != nil && m.fetchGated.CompareAndSwap(false, true) {
		if m.FetchEntered != nil {
			select {
			case m.FetchEntered <- struct{}{}:
			default:
			}
		}
		<-m.FetchGate
	}
	return cart, nil
}

func (m *MockCartAPI) CreateLine(_ context.Context, _, productID string, quantity int, price float64) error {
	m.waitGate()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
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
	m.waitGate()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i := range m.cart.Lines {
		if m.cart.Lines[i].ProductID == productID {
			m.cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("no line for product %s", productID)
}

func (m *MockCartAPI) UpdateLine(_ context.Context, _, lineID string, quantity int) error {
	m.waitGate()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i := range m.cart.Lines {
		if m.cart.Lines[i].LineID == lineID {
			m.cart.Lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("no line %s", lineID)
}

func (m *MockCartAPI) RemoveLine(_ context.Context, _, lineID string) error {
	m.waitGate()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalls++
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
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
	m.waitGate()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.cart.Lines = nil
	return nil
}
