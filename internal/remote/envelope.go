package remote

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

// The cart API answers in more than one shape: a bare object, the same
// object under a "data" wrapper, or a bare line array. Line lists appear as
// "items" or "cartItems", the identifier as "id" or "cartId". Everything is
// funneled through normalizeCart into one canonical domain.Cart.

type cartPayload struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cartId"`
	UserID    string          `json:"user_id"`
	Items     []linePayload   `json:"items"`
	CartItems []linePayload   `json:"cartItems"`
	Data      json.RawMessage `json:"data"`
}

type linePayload struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// errorPayload covers both error envelope spellings seen in the wild.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func normalizeCart(op string, body []byte) (*domain.Cart, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &domain.Cart{}, nil
	}

	if trimmed[0] == '[' {
		var lines []linePayload
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return nil, &SyncError{Op: op, Message: "malformed cart payload"}
		}
		return &domain.Cart{Lines: toLines(lines)}, nil
	}

	var payload cartPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, &SyncError{Op: op, Message: "malformed cart payload"}
	}

	// unwrap a single level of {"data": ...}
	if len(payload.Data) > 0 && !bytes.Equal(bytes.TrimSpace(payload.Data), []byte("null")) {
		return normalizeCart(op, payload.Data)
	}

	id := payload.ID
	if id == "" {
		id = payload.CartID
	}
	// The remote reports "no cart yet" as an all-zero identity rather than
	// a 404; normalize it to an empty anonymous cart.
	if id == uuid.Nil.String() {
		return &domain.Cart{}, nil
	}

	lines := payload.Items
	if len(lines) == 0 {
		lines = payload.CartItems
	}
	return &domain.Cart{ID: id, Lines: toLines(lines)}, nil
}

func toLines(payload []linePayload) []domain.CartLine {
	if len(payload) == 0 {
		return nil
	}
	lines := make([]domain.CartLine, 0, len(payload))
	for _, p := range payload {
		lines = append(lines, domain.CartLine{
			LineID:    p.ID,
			ProductID: p.ProductID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  p.Quantity,
		})
	}
	return lines
}

// remoteMessage extracts the server's error text from an error envelope,
// empty when the body carries none.
func remoteMessage(body []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return ""
}
