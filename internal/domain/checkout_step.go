package domain

type CheckoutStep string

const (
	CheckoutStepCart      CheckoutStep = "CART"
	CheckoutStepAddress   CheckoutStep = "ADDRESS"
	CheckoutStepPayment   CheckoutStep = "PAYMENT"
	CheckoutStepCompleted CheckoutStep = "COMPLETED"
)

func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepCompleted
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

// CanTransitionTo reports whether the checkout flow may move from one step
// to another. The flow is linear; the only backward edge is the manual
// reset from COMPLETED to CART.
func CanTransitionTo(from, to CheckoutStep) bool {
	switch from {
	case CheckoutStepCart:
		return to == CheckoutStepAddress
	case CheckoutStepAddress:
		return to == CheckoutStepPayment
	case CheckoutStepPayment:
		return to == CheckoutStepCompleted
	case CheckoutStepCompleted:
		return to == CheckoutStepCart
	}
	return false
}
