package cache

import (
	"context"
	"errors"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
)

// ProductCache holds catalog reads. Cart lines are never cached because their
// totals must reflect the current price.
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	GetProducts(ctx context.Context) ([]*domain.Product, error)
	SetProducts(ctx context.Context, products []*domain.Product) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop never stores anything. Used when no redis address is configured.
type Noop struct{}

func (Noop) GetProduct(context.Context, int64) (*domain.Product, error) {
	return nil, ErrCacheMiss
}

func (Noop) SetProduct(context.Context, *domain.Product) error {
	return nil
}

func (Noop) GetProducts(context.Context) ([]*domain.Product, error) {
	return nil, ErrCacheMiss
}

func (Noop) SetProducts(context.Context, []*domain.Product) error {
	return nil
}
