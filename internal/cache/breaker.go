package cache

import (
	"context"
	"errors"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerSettings struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "product-cache",
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// BreakerCache stops calling a failing cache for a while. While the breaker
// is open every read is a miss and every write is dropped.
type BreakerCache struct {
	next ProductCache
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerCache(next ProductCache, settings BreakerSettings, logger *zap.Logger) *BreakerCache {
	st := gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerCache{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](st),
	}
}

func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.GetProduct(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (b *BreakerCache) SetProduct(ctx context.Context, product *domain.Product) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.SetProduct(ctx, product)
	})
	return err
}

func (b *BreakerCache) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.GetProducts(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Product), nil
}

func (b *BreakerCache) SetProducts(ctx context.Context, products []*domain.Product) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.SetProducts(ctx, products)
	})
	return err
}

func (b *BreakerCache) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCacheMiss
	}
	return v, err
}
