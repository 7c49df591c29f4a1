package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/cache"
	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/abraxas0001/E-Com-Cart/internal/logger"
	"github.com/abraxas0001/E-Com-Cart/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheFillTimeout = time.Second

// Service is the read-only product catalog.
type Service struct {
	repo   repository.ProductRepository
	cache  cache.ProductCache
	logger *zap.Logger
	sfg    singleflight.Group
}

func NewService(repo repository.ProductRepository, productCache cache.ProductCache, logger *zap.Logger) *Service {
	if productCache == nil {
		productCache = cache.Noop{}
	}
	return &Service{
		repo:   repo,
		cache:  productCache,
		logger: logger,
	}
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	if _, err := s.cache.GetProduct(ctx, id); err == nil {
		return true, nil
	}

	ok, err := s.repo.ProductExists(ctx, id)
	if err != nil {
		return false, domain.NewInternal("failed to check product", err)
	}
	return ok, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := "product:" + strconv.FormatInt(id, 10)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		product, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return product, nil
		}
		s.logCacheError(ctx, "cache get product error", err)

		product, err = s.repo.GetProduct(ctx, id)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		if err != nil {
			return nil, domain.NewInternal("failed to load product", err)
		}

		s.fill(ctx, func(ctx context.Context) error {
			return s.cache.SetProduct(ctx, product)
		})
		return product, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) GetAll(ctx context.Context) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do("products:all", func() (interface{}, error) {
		products, err := s.cache.GetProducts(ctx)
		if err == nil {
			return products, nil
		}
		s.logCacheError(ctx, "cache get products error", err)

		products, err = s.repo.GetAllProducts(ctx)
		if err != nil {
			return nil, domain.NewInternal("failed to load products", err)
		}

		s.fill(ctx, func(ctx context.Context) error {
			return s.cache.SetProducts(ctx, products)
		})
		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*domain.Product), nil
}

// fill writes to the cache on a context detached from the request.
func (s *Service) fill(ctx context.Context, set func(context.Context) error) {
	fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheFillTimeout)
	defer cancel()

	if err := set(fillCtx); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		logger.WithContext(ctx, s.logger).Warn("cache set error", zap.Error(err))
	}
}

func (s *Service) logCacheError(ctx context.Context, msg string, err error) {
	if errors.Is(err, cache.ErrCacheMiss) {
		return
	}
	logger.WithContext(ctx, s.logger).Warn(msg, zap.Error(err))
}
