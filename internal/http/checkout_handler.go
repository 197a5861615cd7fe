package http

import (
	"encoding/json"
	"net/http"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/session"
)

type CheckoutHandler struct {
	sessions *session.Manager
}

func NewCheckoutHandler(sessions *session.Manager) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

type ConfirmPaymentRequestDTO struct {
	Phone string `json:"phone"`
}

type checkoutStateView struct {
	Step    string                  `json:"step"`
	Address *domain.ShippingAddress `json:"address,omitempty"`
	Order   *domain.Order           `json:"order,omitempty"`
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	credential := session.CredentialFromContext(r.Context())
	if credential == "" {
		respondError(w, http.StatusUnauthorized, "auth_required", "checkout requires an authenticated session")
		return
	}

	flow := h.sessions.Get(credential).Checkout
	respondJSON(w, http.StatusOK, checkoutStateView{
		Step:    flow.Step().String(),
		Address: flow.Address(),
		Order:   flow.Order(),
	})
}

// Begin moves cart -> address once the reconciled cart is non-empty.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credential := session.CredentialFromContext(ctx)
	if credential == "" {
		respondError(w, http.StatusUnauthorized, "auth_required", "checkout requires an authenticated session")
		return
	}

	flow := h.sessions.Get(credential).Checkout
	if err := flow.ProceedToAddress(ctx, credential); err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutStateView{Step: flow.Step().String()})
}

func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	credential := session.CredentialFromContext(r.Context())
	if credential == "" {
		respondError(w, http.StatusUnauthorized, "auth_required", "checkout requires an authenticated session")
		return
	}

	var addr domain.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	flow := h.sessions.Get(credential).Checkout
	if err := flow.SubmitAddress(addr); err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutStateView{
		Step:    flow.Step().String(),
		Address: flow.Address(),
	})
}

func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credential := session.CredentialFromContext(ctx)
	if credential == "" {
		respondError(w, http.StatusUnauthorized, "auth_required", "checkout requires an authenticated session")
		return
	}

	var req ConfirmPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	flow := h.sessions.Get(credential).Checkout
	result, err := flow.ConfirmPayment(ctx, credential, req.Phone)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	credential := session.CredentialFromContext(r.Context())
	if credential == "" {
		respondError(w, http.StatusUnauthorized, "auth_required", "checkout requires an authenticated session")
		return
	}

	flow := h.sessions.Get(credential).Checkout
	if err := flow.Reset(); err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutStateView{Step: flow.Step().String()})
}
