package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout step")
	ErrCheckoutInFlight  = errors.New("another checkout operation is in flight")
)

// PaymentDeclinedError carries the provider's message for a charge that was
// processed but refused.
type PaymentDeclinedError struct {
	Message string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Message == "" {
		return "payment declined"
	}
	return fmt.Sprintf("payment declined: %s", e.Message)
}
