package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketplace-service/internal/domain"
)

// --- Cart Handlers ---

// CartAddInput defines the expected input for adding to the cart. Quantity defaults to 1.
type CartAddInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// CartUpdateInput defines the expected input for changing a cart row's quantity.
type CartUpdateInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (h *HTTPHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.cart.List(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve cart")
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var input CartAddInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	item, err := h.cart.Add(r.Context(), principal(r), input.ProductID, quantity)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to add item to cart")
		return
	}
	invalidate(w, "/api/cart")
	respondWithJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var input CartUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	item, err := h.cart.UpdateQuantity(r.Context(), principal(r), chi.URLParam(r, "cartItemId"), *input.Quantity)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update cart item")
		return
	}
	invalidate(w, "/api/cart")
	respondWithJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Remove(r.Context(), principal(r), chi.URLParam(r, "cartItemId")); err != nil {
		respondWithServiceError(w, r, err, "Failed to remove cart item")
		return
	}
	invalidate(w, "/api/cart")
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), principal(r)); err != nil {
		respondWithServiceError(w, r, err, "Failed to clear cart")
		return
	}
	invalidate(w, "/api/cart")
	w.WriteHeader(http.StatusNoContent)
}

// --- Order Handlers ---

// OrderLineInput is one requested line of a checkout. Quantity defaults to 1.
type OrderLineInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// OrderCreateInput defines the expected input for checkout.
type OrderCreateInput struct {
	Items []OrderLineInput `json:"items" validate:"dive"`
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input OrderCreateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	lines := make([]domain.OrderLine, 0, len(input.Items))
	for _, it := range input.Items {
		line := domain.OrderLine{ProductID: it.ProductID, Quantity: 1}
		if it.Quantity != nil {
			line.Quantity = *it.Quantity
		}
		lines = append(lines, line)
	}

	order, err := h.orders.Checkout(r.Context(), principal(r), lines)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create order")
		return
	}
	invalidate(w, "/api/cart", "/api/orders", "/api/products")
	respondWithJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), principal(r), chi.URLParam(r, "orderId"))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve order")
		return
	}
	respondWithJSON(w, http.StatusOK, order)
}
