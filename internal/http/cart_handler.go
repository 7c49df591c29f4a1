package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartEngine interface {
	AddItem(ctx context.Context, productID int64, quantity int) (*domain.CartLine, error)
	GetCartWithTotal(ctx context.Context) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartLine, error)
	RemoveItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

type CartHandler struct {
	cart   CartEngine
	logger *zap.Logger
}

func NewCartHandler(cart CartEngine, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, h.logger, err, "Failed to add item to cart")
		return
	}

	productID, okProduct := parseInteger(req.ProductID)
	quantity, okQuantity := parseInteger(req.Quantity)
	if req.ProductID == "" || req.Quantity == "" || (okProduct && productID == 0) || (okQuantity && quantity == 0) {
		respondError(w, http.StatusBadRequest, domain.KindValidation, "productId and quantity are required")
		return
	}
	if !okQuantity {
		respondError(w, http.StatusBadRequest, domain.KindValidation, domain.ErrQuantityPositive.Message)
		return
	}
	if !okProduct {
		respondError(w, http.StatusBadRequest, domain.KindValidation, "productId must be an integer")
		return
	}

	qty, err := quantityArg(quantity)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to add item to cart")
		return
	}

	line, err := h.cart.AddItem(r.Context(), productID, qty)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to add item to cart")
		return
	}

	respondJSON(w, http.StatusCreated, toCartLineResponse(*line))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.GetCartWithTotal(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch cart")
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, domain.KindValidation, "Invalid item ID")
		return
	}

	var req UpdateQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, h.logger, err, "Failed to update cart item")
		return
	}
	if req.Quantity == "" {
		respondError(w, http.StatusBadRequest, domain.KindValidation, "quantity is required")
		return
	}

	quantity, ok := parseInteger(req.Quantity)
	if !ok {
		respondError(w, http.StatusBadRequest, domain.KindValidation, domain.ErrQuantityNonNegative.Message)
		return
	}

	qty, err := quantityArg(quantity)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to update cart item")
		return
	}

	line, err := h.cart.UpdateItemQuantity(r.Context(), itemID, qty)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to update cart item")
		return
	}

	if line == nil {
		respondJSON(w, http.StatusOK, MessageResponse{Message: "Item removed from cart"})
		return
	}
	respondJSON(w, http.StatusOK, toCartLineResponse(*line))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, domain.KindValidation, "Invalid item ID")
		return
	}

	if err := h.cart.RemoveItem(r.Context(), itemID); err != nil {
		handleError(w, r, h.logger, err, "Failed to remove item from cart")
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Item removed from cart"})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		handleError(w, r, h.logger, err, "Failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Cart cleared"})
}

func itemIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
