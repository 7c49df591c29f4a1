package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductReader interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type ProductHandler struct {
	products ProductReader
	logger   *zap.Logger
}

func NewProductHandler(products ProductReader, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch products")
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, domain.KindValidation, "Invalid product ID")
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err, "Failed to fetch product")
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}
