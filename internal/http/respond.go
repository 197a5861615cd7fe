package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/DANCANKARANI/e-commerce/internal/cartsync"
	"github.com/DANCANKARANI/e-commerce/internal/checkout"
	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/remote"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondMappedError converts the typed errors of the cart and checkout
// cores into one user-facing message plus an HTTP status. Nothing here is
// retried; a retry is always a fresh user action.
func respondMappedError(w http.ResponseWriter, err error) {
	var (
		authErr  *domain.AuthRequiredError
		valErr   *domain.ValidationError
		declined *checkout.PaymentDeclinedError
		syncErr  *remote.SyncError
		netErr   *remote.NetworkError
	)

	switch {
	case errors.As(err, &authErr):
		respondError(w, http.StatusUnauthorized, "auth_required", err.Error())
	case errors.As(err, &valErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: valErr.Fields,
		})
	case errors.Is(err, cartsync.ErrOperationInFlight), errors.Is(err, checkout.ErrCheckoutInFlight):
		respondError(w, http.StatusConflict, "operation_in_flight", err.Error())
	case errors.Is(err, cartsync.ErrCartStale):
		respondError(w, http.StatusConflict, "cart_stale", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.As(err, &declined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.As(err, &syncErr):
		respondError(w, http.StatusBadGateway, "sync_failed", err.Error())
	case errors.As(err, &netErr):
		respondError(w, http.StatusServiceUnavailable, "network_error", err.Error())
	default:
		log.Error().Err(err).Msg("unmapped handler error")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

type cartLineView struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal string  `json:"line_total"`
}

type cartView struct {
	ID           string         `json:"id,omitempty"`
	Items        []cartLineView `json:"items"`
	Total        float64        `json:"total"`
	TotalDisplay string         `json:"total_display"`
	Stale        bool           `json:"stale,omitempty"`
}

// Currency formatting happens here and nowhere else; all internal
// arithmetic stays on the raw float.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func toCartView(cart *domain.Cart, stale bool) cartView {
	view := cartView{
		ID:           cart.ID,
		Items:        make([]cartLineView, 0, len(cart.Lines)),
		Total:        cart.Total(),
		TotalDisplay: formatAmount(cart.Total()),
		Stale:        stale,
	}
	for _, l := range cart.Lines {
		view.Items = append(view.Items, cartLineView{
			ID:        l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: formatAmount(l.Total()),
		})
	}
	return view
}
