package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
	"github.com/DANCANKARANI/e-commerce/internal/session"
)

type CartHandler struct {
	sessions *session.Manager
	mirror   *session.MirrorStore
}

func NewCartHandler(sessions *session.Manager, mirror *session.MirrorStore) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		mirror:   mirror,
	}
}

type AddItemRequestDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credential := session.CredentialFromContext(ctx)

	if credential == "" {
		h.respondGuestCart(w, r)
		return
	}

	state := h.sessions.Get(credential)
	if guestID := session.GuestIDFromContext(ctx); guestID != "" {
		h.mergeGuestCart(ctx, w, state, credential, guestID)
	}

	cart, err := state.Cart.Load(ctx, credential)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartView(cart, state.Cart.Stale()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	credential := session.CredentialFromContext(ctx)
	if credential == "" {
		guestID := session.GuestIDFromContext(ctx)
		if guestID == "" {
			guestID = session.NewGuestID()
			session.SetGuestCookie(w, guestID)
		}
		cart, err := h.mirror.AddLine(ctx, guestID, req.ProductID, req.Name, req.Price)
		if err != nil {
			respondMirrorError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toCartView(cart, false))
		return
	}

	state := h.sessions.Get(credential)
	cart, err := state.Cart.Add(ctx, credential, req.ProductID, req.Name, req.Price)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartView(cart, false))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	credential := session.CredentialFromContext(ctx)
	if credential == "" {
		guestID := session.GuestIDFromContext(ctx)
		if guestID == "" {
			respondError(w, http.StatusNotFound, "not_found", "no cart for session")
			return
		}
		cart, err := h.mirror.UpdateQuantity(ctx, guestID, lineID, req.Quantity)
		if err != nil {
			respondMirrorError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toCartView(cart, false))
		return
	}

	state := h.sessions.Get(credential)
	cart, err := state.Cart.UpdateQuantity(ctx, credential, lineID, req.Quantity)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartView(cart, false))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line id is required")
		return
	}

	credential := session.CredentialFromContext(ctx)
	if credential == "" {
		guestID := session.GuestIDFromContext(ctx)
		if guestID == "" {
			respondError(w, http.StatusNotFound, "not_found", "no cart for session")
			return
		}
		cart, err := h.mirror.RemoveLine(ctx, guestID, lineID)
		if err != nil {
			respondMirrorError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toCartView(cart, false))
		return
	}

	state := h.sessions.Get(credential)
	cart, err := state.Cart.Remove(ctx, credential, lineID)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartView(cart, false))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	credential := session.CredentialFromContext(ctx)
	if credential == "" {
		guestID := session.GuestIDFromContext(ctx)
		if guestID == "" {
			respondJSON(w, http.StatusOK, toCartView(emptyCart(), false))
			return
		}
		cart, err := h.mirror.Clear(ctx, guestID)
		if err != nil {
			respondMirrorError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toCartView(cart, false))
		return
	}

	state := h.sessions.Get(credential)
	cart, err := state.Cart.Clear(ctx, credential)
	if err != nil {
		respondMappedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartView(cart, false))
}

func (h *CartHandler) respondGuestCart(w http.ResponseWriter, r *http.Request) {
	guestID := session.GuestIDFromContext(r.Context())
	if guestID == "" {
		respondJSON(w, http.StatusOK, toCartView(emptyCart(), false))
		return
	}
	cart, err := h.mirror.Get(r.Context(), guestID)
	if errors.Is(err, session.ErrMirrorMiss) {
		respondJSON(w, http.StatusOK, toCartView(emptyCart(), false))
		return
	}
	if err != nil {
		respondMirrorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartView(cart, false))
}

// mergeGuestCart folds a pre-login mirror cart into the freshly
// authenticated remote cart. Merge trouble never blocks the page; the
// mirror simply survives until the next attempt.
func (h *CartHandler) mergeGuestCart(ctx context.Context, w http.ResponseWriter, state *session.State, credential, guestID string) {
	mirror, err := h.mirror.Get(ctx, guestID)
	if errors.Is(err, session.ErrMirrorMiss) {
		session.ClearGuestCookie(w)
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("guest mirror unavailable, skipping merge")
		return
	}

	if !mirror.IsEmpty() {
		if _, err := state.Cart.Load(ctx, credential); err != nil {
			log.Warn().Err(err).Msg("remote cart unavailable, deferring guest merge")
			return
		}
		if _, err := state.Cart.Merge(ctx, credential, mirror.Lines); err != nil {
			log.Warn().Err(err).Msg("guest cart merge failed")
			return
		}
	}

	if err := h.mirror.Delete(ctx, guestID); err != nil {
		log.Warn().Err(err).Msg("guest mirror delete failed after merge")
	}
	session.ClearGuestCookie(w)
}

func emptyCart() *domain.Cart {
	return &domain.Cart{}
}

// Mirror failures are either client-side validation or redis trouble; the
// latter maps to service-unavailable rather than an internal error.
func respondMirrorError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		respondMappedError(w, err)
		return
	}
	respondError(w, http.StatusServiceUnavailable, "mirror_unavailable", "guest cart is temporarily unavailable")
}
