package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/DANCANKARANI/e-commerce/internal/cartsync"
	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/remote"
)

// Flow drives one user's linear checkout: CART -> ADDRESS -> PAYMENT ->
// COMPLETED. Totals always come from the server-reconciled cart, the order
// is created at most once per session, and the remote cart is cleared only
// after order creation succeeded.
type Flow struct {
	cart     *cartsync.Store
	orders   remote.OrderAPI
	payments remote.PaymentAPI

	mu             sync.Mutex
	step           domain.CheckoutStep
	address        *domain.ShippingAddress
	idempotencyKey string
	order          *domain.Order
	clearWarning   string
}

// Result is what a completed checkout hands back to the UI.
type Result struct {
	Order *domain.Order `json:"order"`
	// ClearWarning is set when the order was created but the remote cart
	// could not be cleared afterwards.
	ClearWarning string `json:"clear_warning,omitempty"`
}

func NewFlow(cart *cartsync.Store, orders remote.OrderAPI, payments remote.PaymentAPI) *Flow {
	return &Flow{
		cart:     cart,
		orders:   orders,
		payments: payments,
		step:     domain.CheckoutStepCart,
	}
}

func (f *Flow) Step() domain.CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Address returns the captured shipping address, nil before it is set.
func (f *Flow) Address() *domain.ShippingAddress {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.address == nil {
		return nil
	}
	addr := *f.address
	return &addr
}

// Order returns the created order once the flow completed.
func (f *Flow) Order() *domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// ProceedToAddress moves from cart review to address capture. The cart is
// reloaded from the server first; an empty cart blocks the transition.
func (f *Flow) ProceedToAddress(ctx context.Context, credential string) error {
	if credential == "" {
		return &domain.AuthRequiredError{Op: "checkout"}
	}
	if !f.mu.TryLock() {
		return ErrCheckoutInFlight
	}
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.step, domain.CheckoutStepAddress) {
		return ErrIllegalTransition
	}

	cart, err := f.cart.Load(ctx, credential)
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		return ErrEmptyCart
	}

	f.step = domain.CheckoutStepAddress
	return nil
}

// SubmitAddress validates and captures the shipping address, fixing the
// order idempotency key for the rest of the session.
func (f *Flow) SubmitAddress(addr domain.ShippingAddress) error {
	if !f.mu.TryLock() {
		return ErrCheckoutInFlight
	}
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.step, domain.CheckoutStepPayment) {
		return ErrIllegalTransition
	}
	if fields := addr.Validate(); len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	captured := addr
	f.address = &captured
	f.idempotencyKey = uuid.NewString()
	f.step = domain.CheckoutStepPayment
	return nil
}

// ConfirmPayment charges the mobile-money provider, creates the order from
// the reconciled cart snapshot, then clears the remote cart. A failed
// charge or order creation leaves the flow in PAYMENT with the cart fully
// intact; a failed clear after a created order is reported as a warning but
// does not undo completion.
func (f *Flow) ConfirmPayment(ctx context.Context, credential, phone string) (*Result, error) {
	if credential == "" {
		return nil, &domain.AuthRequiredError{Op: "payment"}
	}
	if !f.mu.TryLock() {
		return nil, ErrCheckoutInFlight
	}
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.step, domain.CheckoutStepCompleted) || f.address == nil {
		return nil, ErrIllegalTransition
	}

	msisdn, err := NormalizeMsisdn(phone)
	if err != nil {
		return nil, err
	}

	cart, err := f.cart.Load(ctx, credential)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	charge, err := f.payments.Charge(ctx, remote.ChargeRequest{
		Cost:          cart.Total(),
		CustomerPhone: msisdn,
	})
	if err != nil {
		return nil, err
	}
	if !charge.Success {
		return nil, &PaymentDeclinedError{Message: charge.Message}
	}

	order, err := f.orders.Create(ctx, credential, remote.CreateOrderRequest{
		Items:           domain.OrderItemsFromCart(cart),
		ShippingAddress: f.address.Formatted(),
		PaymentMethod:   domain.PaymentMethodMpesa,
	}, f.idempotencyKey)
	if err != nil {
		// the cart is deliberately left intact: the user paid for nothing
		// yet and must not lose their lines
		return nil, err
	}
	order.Total = cart.Total()

	f.clearWarning = ""
	if _, clearErr := f.cart.Clear(ctx, credential); clearErr != nil {
		log.Warn().Err(clearErr).Str("order_id", order.OrderID).
			Msg("order created but cart clear failed")
		f.clearWarning = "order placed, but the cart could not be cleared"
	}

	f.order = order
	f.step = domain.CheckoutStepCompleted
	return &Result{Order: order, ClearWarning: f.clearWarning}, nil
}

// Reset returns a completed flow to an empty-cart CART state, clearing any
// transient error state ("Continue Shopping").
func (f *Flow) Reset() error {
	if !f.mu.TryLock() {
		return ErrCheckoutInFlight
	}
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.step, domain.CheckoutStepCart) {
		return ErrIllegalTransition
	}
	f.step = domain.CheckoutStepCart
	f.address = nil
	f.idempotencyKey = ""
	f.order = nil
	f.clearWarning = ""
	return nil
}
