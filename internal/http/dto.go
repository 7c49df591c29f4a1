package http

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
)

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
}

type CartLineResponse struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total float64            `json:"total"`
}

type ReceiptResponse struct {
	OrderID      string             `json:"orderId"`
	CustomerName string             `json:"customerName"`
	Email        string             `json:"email"`
	Total        float64            `json:"total"`
	Timestamp    string             `json:"timestamp"`
	Items        []CartLineResponse `json:"items"`
}

type AddItemRequest struct {
	ProductID json.Number `json:"productId"`
	Quantity  json.Number `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity json.Number `json:"quantity"`
}

type CheckoutRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Stock:       p.Stock,
		Rating:      p.Rating,
	}
}

func toCartLineResponse(l domain.CartLine) CartLineResponse {
	return CartLineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Name:      l.Name,
		Price:     l.Price.InexactFloat64(),
		Quantity:  l.Quantity,
		LineTotal: l.LineTotal.InexactFloat64(),
	}
}

func toCartLineResponses(lines []domain.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toCartLineResponse(l))
	}
	return out
}

func toCartResponse(c *domain.Cart) CartResponse {
	return CartResponse{
		Items: toCartLineResponses(c.Items),
		Total: c.Total.InexactFloat64(),
	}
}

func toReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		OrderID:      r.OrderID,
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Total:        r.Total.InexactFloat64(),
		Timestamp:    r.FormattedTimestamp(),
		Items:        toCartLineResponses(r.Items),
	}
}

// parseInteger accepts any JSON number with no fractional part that fits in
// an int64, so 2 and 2.0 are both the integer 2. Range checks against
// domain.MaxQuantity happen in quantityArg.
func parseInteger(n json.Number) (int64, bool) {
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// quantityArg narrows a parsed quantity to int, rejecting anything above
// domain.MaxQuantity before it reaches the engine.
func quantityArg(q int64) (int, error) {
	if q > domain.MaxQuantity {
		return 0, domain.ErrQuantityTooLarge
	}
	return int(q), nil
}
