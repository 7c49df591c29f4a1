package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/redis/go-redis/v9"
)

const allProductsKey = "products:all"

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := r.get(ctx, productKey(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, product *domain.Product) error {
	return r.set(ctx, productKey(product.ID), product)
}

func (r *RedisCache) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	if err := r.get(ctx, allProductsKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RedisCache) SetProducts(ctx context.Context, products []*domain.Product) error {
	return r.set(ctx, allProductsKey, products)
}

func (r *RedisCache) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl spreads expiry over a few minutes so catalog keys do not all expire at once.
func (r *RedisCache) ttl() time.Duration {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	return r.baseTTL + jitter
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}
