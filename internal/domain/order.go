package domain

import "time"

const PaymentMethodMpesa = "mpesa"

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order is the terminal artifact of a successful checkout. It is created
// exactly once per checkout session and immutable afterwards.
type Order struct {
	OrderID         string      `json:"order_id"`
	Items           []OrderItem `json:"items"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Total           float64     `json:"total"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItemsFromCart builds the order line list from a cart snapshot.
func OrderItemsFromCart(cart *Cart) []OrderItem {
	if cart == nil {
		return nil
	}
	items := make([]OrderItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items
}
