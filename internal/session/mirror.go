package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

var ErrMirrorMiss = errors.New("no mirror cart for guest")

// MirrorStore keeps a fallback cart for sessions that have no backend
// credential yet. It is the only state the storefront persists itself; the
// moment the user authenticates the mirror is merged into the remote cart
// and deleted.
type MirrorStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewMirrorStore(client *redis.Client) *MirrorStore {
	return &MirrorStore{
		client:  client,
		baseTTL: 24 * time.Hour,
	}
}

// NewGuestID mints the identifier stored in the guest cookie.
func NewGuestID() string {
	return uuid.NewString()
}

func (m *MirrorStore) Get(ctx context.Context, guestID string) (*domain.Cart, error) {
	data, err := m.client.Get(ctx, mirrorKey(guestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMirrorMiss
	}
	if err != nil {
		return nil, fmt.Errorf("mirror get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal mirror cart failed: %w", err)
	}
	return &cart, nil
}

func (m *MirrorStore) Save(ctx context.Context, guestID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal mirror cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Minute
	if err := m.client.Set(ctx, mirrorKey(guestID), data, m.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("mirror set failed: %w", err)
	}
	return nil
}

func (m *MirrorStore) Delete(ctx context.Context, guestID string) error {
	if err := m.client.Del(ctx, mirrorKey(guestID)).Err(); err != nil {
		return fmt.Errorf("mirror delete failed: %w", err)
	}
	return nil
}

// AddLine applies the same add-or-increment rule the remote cart uses, but
// against the mirror.
func (m *MirrorStore) AddLine(ctx context.Context, guestID, productID, name string, unitPrice float64) (*domain.Cart, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "product reference is required")
	}
	cart, err := m.getOrEmpty(ctx, guestID)
	if err != nil {
		return nil, err
	}

	bumped := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity++
			bumped = true
			break
		}
	}
	if !bumped {
		cart.Lines = append(cart.Lines, domain.CartLine{
			LineID:    uuid.NewString(),
			ProductID: productID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  1,
		})
	}

	if err := m.Save(ctx, guestID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (m *MirrorStore) UpdateQuantity(ctx context.Context, guestID, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "quantity must be a positive integer")
	}
	cart, err := m.Get(ctx, guestID)
	if errors.Is(err, ErrMirrorMiss) {
		return nil, domain.NewValidationError("line_id", "no such line in cart")
	}
	if err != nil {
		return nil, err
	}

	for i := range cart.Lines {
		if cart.Lines[i].LineID == lineID {
			cart.Lines[i].Quantity = quantity
			if err := m.Save(ctx, guestID, cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}
	return nil, domain.NewValidationError("line_id", "no such line in cart")
}

func (m *MirrorStore) RemoveLine(ctx context.Context, guestID, lineID string) (*domain.Cart, error) {
	cart, err := m.Get(ctx, guestID)
	if errors.Is(err, ErrMirrorMiss) {
		return nil, domain.NewValidationError("line_id", "no such line in cart")
	}
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	removed := false
	for _, l := range cart.Lines {
		if l.LineID == lineID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return nil, domain.NewValidationError("line_id", "no such line in cart")
	}
	cart.Lines = kept

	if err := m.Save(ctx, guestID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (m *MirrorStore) Clear(ctx context.Context, guestID string) (*domain.Cart, error) {
	if err := m.Delete(ctx, guestID); err != nil {
		return nil, err
	}
	return &domain.Cart{}, nil
}

func (m *MirrorStore) getOrEmpty(ctx context.Context, guestID string) (*domain.Cart, error) {
	cart, err := m.Get(ctx, guestID)
	if errors.Is(err, ErrMirrorMiss) {
		return &domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func mirrorKey(guestID string) string {
	return fmt.Sprintf("guestcart:%s", guestID)
}
