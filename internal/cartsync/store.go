package cartsync

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/remote"
)

// Store keeps a client-visible mirror of one user's remote cart. The remote
// service owns totals and line identity, so every successful mutation ends
// in a full reload instead of local arithmetic; an extra round trip buys
// the guarantee that the mirror never drifts from the server's view.
//
// At most one mutation is in flight at a time. A mutation whose remote call
// failed leaves the mirror on its pre-operation snapshot; a mutation whose
// reconciliation failed marks the mirror stale and blocks further writes
// until a Load succeeds.
type Store struct {
	api remote.CartAPI

	opMu sync.Mutex // held for the whole of one mutation round
	sfg  singleflight.Group

	mu    sync.Mutex // guards cart, stale and gen
	cart  *domain.Cart
	stale bool
	gen   uint64 // bumped on every applied mutation
}

func NewStore(api remote.CartAPI) *Store {
	return &Store{
		api:  api,
		cart: &domain.Cart{},
	}
}

// Load fetches the remote cart for the given credential and replaces the
// mirror. Without a credential the cart is anonymous: empty, no identifier,
// and no remote call is made. On failure the previous mirror is untouched.
func (s *Store) Load(ctx context.Context, credential string) (*domain.Cart, error) {
	if credential == "" {
		s.mu.Lock()
		s.cart = &domain.Cart{}
		s.stale = false
		s.mu.Unlock()
		return &domain.Cart{}, nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	// Concurrent loads collapse into one fetch. The flight key carries the
	// mutation generation so a post-mutation reconcile never joins a fetch
	// that started before its mutation's response.
	v, err, _ := s.sfg.Do("load-"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return s.api.Fetch(ctx, credential)
	})
	if err != nil {
		return nil, err
	}
	cart := v.(*domain.Cart)

	s.mu.Lock()
	// a snapshot fetched before a later mutation must not overwrite the mirror
	if s.gen == gen {
		s.cart = cart.Clone()
		s.stale = false
	}
	s.mu.Unlock()
	return cart.Clone(), nil
}

// Add puts one unit of a product into the cart. Adding a product that is
// already present is an idempotent quantity bump on the existing line, not
// a second line.
func (s *Store) Add(ctx context.Context, credential, productID, name string, unitPrice float64) (*domain.Cart, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "product reference is required")
	}
	return s.mutate(ctx, credential, "add to cart", func() error {
		if line, ok := s.Snapshot().Line(productID); ok {
			return s.api.UpdateProduct(ctx, credential, productID, line.Quantity+1, line.UnitPrice)
		}
		return s.api.CreateLine(ctx, credential, productID, 1, unitPrice)
	})
}

// UpdateQuantity sets an existing line to a new positive quantity. Zero or
// negative quantities are rejected before any network call.
func (s *Store) UpdateQuantity(ctx context.Context, credential, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "quantity must be a positive integer")
	}
	return s.mutate(ctx, credential, "update quantity", func() error {
		return s.api.UpdateLine(ctx, credential, lineID, quantity)
	})
}

// Remove deletes one line. The line stays visible until the remote delete
// succeeds; removal is never applied optimistically.
func (s *Store) Remove(ctx context.Context, credential, lineID string) (*domain.Cart, error) {
	return s.mutate(ctx, credential, "remove from cart", func() error {
		return s.api.RemoveLine(ctx, credential, lineID)
	})
}

// Clear empties the entire remote cart. A mirror that was never loaded
// fetches the cart first to learn its server-assigned identifier; only when
// no cart exists server-side is the remote delete skipped.
func (s *Store) Clear(ctx context.Context, credential string) (*domain.Cart, error) {
	return s.mutate(ctx, credential, "clear cart", func() error {
		cartID := s.Snapshot().ID
		if cartID == "" {
			cart, err := s.api.Fetch(ctx, credential)
			if err != nil {
				return err
			}
			cartID = cart.ID
		}
		if cartID == "" {
			return nil
		}
		return s.api.Clear(ctx, credential, cartID)
	})
}

// Merge pushes externally held lines (a guest mirror) into the remote cart
// in one round, then reconciles once.
func (s *Store) Merge(ctx context.Context, credential string, lines []domain.CartLine) (*domain.Cart, error) {
	return s.mutate(ctx, credential, "merge cart", func() error {
		current := s.Snapshot()
		for _, l := range lines {
			if l.Quantity <= 0 {
				continue
			}
			if existing, ok := current.Line(l.ProductID); ok {
				if err := s.api.UpdateProduct(ctx, credential, l.ProductID, existing.Quantity+l.Quantity, existing.UnitPrice); err != nil {
					return err
				}
				continue
			}
			if err := s.api.CreateLine(ctx, credential, l.ProductID, l.Quantity, l.UnitPrice); err != nil {
				return err
			}
		}
		return nil
	})
}

// Snapshot returns a copy of the current mirror for rendering or checkout.
func (s *Store) Snapshot() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Stale reports whether the mirror is blocked waiting for a fresh Load.
func (s *Store) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// mutate runs one remote mutation under the single-flight-mutation
// discipline and reconciles through Load on success.
func (s *Store) mutate(ctx context.Context, credential, op string, call func() error) (*domain.Cart, error) {
	if credential == "" {
		return nil, &domain.AuthRequiredError{Op: op}
	}
	if !s.opMu.TryLock() {
		return nil, ErrOperationInFlight
	}
	defer s.opMu.Unlock()

	if s.Stale() {
		return nil, ErrCartStale
	}

	if err := call(); err != nil {
		// mirror untouched, caller renders the error and may retry
		return nil, err
	}

	// invalidate any fetch that started before the mutation applied
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()

	cart, err := s.Load(ctx, credential)
	if err != nil {
		s.mu.Lock()
		s.stale = true
		s.mu.Unlock()
		log.Warn().Str("op", op).Err(err).Msg("cart mutation applied but reconciliation failed, marking stale")
		return nil, err
	}
	return cart, nil
}
