package http

import (
	"context"
	"net/http"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"go.uber.org/zap"
)

type CheckoutEngine interface {
	Checkout(ctx context.Context, name, email string) (*domain.Receipt, error)
}

type CheckoutHandler struct {
	checkout CheckoutEngine
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout CheckoutEngine, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, h.logger, err, "Failed to process checkout")
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), req.Name, req.Email)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to process checkout")
		return
	}

	respondJSON(w, http.StatusOK, toReceiptResponse(receipt))
}
