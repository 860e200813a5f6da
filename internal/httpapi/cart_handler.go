package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/csmith-03/alliger-house-of-wings/internal/cart"
	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

const (
	cartCookieName = "cart_id"
	cartCookieAge  = 30 * 24 * time.Hour
)

type CartHandler struct {
	carts *cart.Service
}

func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// cartID reads the cart cookie, minting a fresh id (and setting the cookie)
// on first contact.
func (h *CartHandler) cartID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cartCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cartCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), h.cartID(w, r))
	if err != nil {
		log.Printf("cart load failed: %v", err)
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

type addItemRequest struct {
	ProductID string  `json:"productId"`
	PriceID   *string `json:"priceId"`
	Name      string  `json:"name"`
	Price     *int64  `json:"price"`
	Currency  *string `json:"currency"`
	Image     *string `json:"image"`
	Qty       int     `json:"qty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "missing_product", "productId is required")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}
	qty := req.Qty
	if qty <= 0 {
		qty = 1
	}

	line := domain.CartLine{
		ProductID: req.ProductID,
		PriceID:   req.PriceID,
		Name:      req.Name,
		Price:     req.Price,
		Currency:  req.Currency,
		Image:     req.Image,
	}
	c, err := h.carts.Add(r.Context(), h.cartID(w, r), line, qty)
	if err != nil {
		log.Printf("cart add failed: %v", err)
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

type updateItemRequest struct {
	PriceID *string `json:"priceId"`
	Qty     int     `json:"qty"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	c, err := h.carts.SetQty(r.Context(), h.cartID(w, r), productID, req.Qty, req.PriceID)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQty) {
			respondError(w, http.StatusBadRequest, "invalid_qty", err.Error())
			return
		}
		log.Printf("cart update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// RemoveItem drops the matching variant line; without ?priceId= every line
// for the product goes.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var priceID *string
	if v := r.URL.Query().Get("priceId"); v != "" {
		priceID = &v
	}

	c, err := h.carts.Remove(r.Context(), h.cartID(w, r), productID, priceID)
	if err != nil {
		log.Printf("cart remove failed: %v", err)
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), h.cartID(w, r)); err != nil {
		log.Printf("cart clear failed: %v", err)
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to clear cart")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
