package repository

import (
	"context"
	"errors"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartLineNotFound = errors.New("cart line not found")
)

// ProductRepository is the read side of the catalog. Products are never written by the cart core.
type ProductRepository interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ProductExists(ctx context.Context, id int64) (bool, error)
}

// CartRepository stores cart lines. Reads return the line joined with its
// product, so name, price and line total always reflect the catalog.
type CartRepository interface {
	GetAll(ctx context.Context) ([]domain.CartLine, error)
	GetByID(ctx context.Context, id int64) (*domain.CartLine, error)
	GetByProductID(ctx context.Context, productID int64) (*domain.CartLine, error)
	Insert(ctx context.Context, productID int64, quantity int) (int64, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Exists(ctx context.Context, id int64) (bool, error)
}
