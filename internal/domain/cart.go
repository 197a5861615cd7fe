package domain

// CartLine is one product entry in a cart. The unit price is snapshotted by
// the remote service when the product is first added.
type CartLine struct {
	LineID    string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (l CartLine) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart mirrors the remote service's view of one user's cart. ID is the
// server-assigned cart identifier, empty for an anonymous or empty cart.
// A product appears in at most one line.
type Cart struct {
	ID    string     `json:"id,omitempty"`
	Lines []CartLine `json:"items"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Line returns the line holding the given product, if any.
func (c *Cart) Line(productID string) (CartLine, bool) {
	if c == nil {
		return CartLine{}, false
	}
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

func (c *Cart) Total() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return &Cart{}
	}
	out := &Cart{ID: c.ID}
	if len(c.Lines) > 0 {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return out
}
