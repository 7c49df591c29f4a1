package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/abraxas0001/E-Com-Cart/internal/logger"
	"github.com/abraxas0001/E-Com-Cart/internal/repository"
	"go.uber.org/zap"
)

// ErrClearFailed is returned by Settle when fn succeeded but the cart could not be cleared.
var ErrClearFailed = errors.New("cart clear failed")

// ProductChecker answers whether a product exists in the catalog.
type ProductChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CartService owns the single shared cart. Every mutation runs under mu, so
// read-then-write sequences such as merge-on-add cannot interleave. Reads
// take no lock and see the last committed state.
type CartService struct {
	mu       sync.Mutex
	repo     repository.CartRepository
	products ProductChecker
	logger   *zap.Logger
}

func NewCartService(repo repository.CartRepository, products ProductChecker, logger *zap.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// AddItem adds quantity of productID to the cart. A product already in the
// cart gets the quantities summed instead of a second line; a sum above
// domain.MaxQuantity is rejected and leaves the line as it was.
func (s *CartService) AddItem(ctx context.Context, productID int64, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, domain.ErrQuantityPositive
	}
	if quantity > domain.MaxQuantity {
		return nil, domain.ErrQuantityTooLarge
	}

	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return nil, s.internal(ctx, "failed to check product", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetByProductID(ctx, productID)
	switch {
	case err == nil:
		if existing.Quantity > domain.MaxQuantity-quantity {
			return nil, domain.ErrQuantityTooLarge
		}
		newQuantity := existing.Quantity + quantity
		if err := s.repo.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, s.storeError(ctx, "failed to merge cart item", err)
		}
		s.log(ctx).Debug("merged cart item",
			zap.Int64("item_id", existing.ID),
			zap.Int64("product_id", productID),
			zap.Int("quantity", newQuantity),
		)
		return s.line(ctx, existing.ID)

	case errors.Is(err, repository.ErrCartLineNotFound):
		id, err := s.repo.Insert(ctx, productID, quantity)
		if err != nil {
			return nil, s.internal(ctx, "failed to insert cart item", err)
		}
		s.log(ctx).Debug("inserted cart item",
			zap.Int64("item_id", id),
			zap.Int64("product_id", productID),
			zap.Int("quantity", quantity),
		)
		return s.line(ctx, id)

	default:
		return nil, s.internal(ctx, "failed to look up cart item", err)
	}
}

func (s *CartService) GetCartWithTotal(ctx context.Context) (*domain.Cart, error) {
	lines, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.internal(ctx, "failed to load cart", err)
	}

	cart := domain.NewCart(lines)
	return &cart, nil
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity of zero
// removes the line, in which case the returned line is nil.
func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartLine, error) {
	if quantity < 0 {
		return nil, domain.ErrQuantityNonNegative
	}
	if quantity > domain.MaxQuantity {
		return nil, domain.ErrQuantityTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLine(ctx, itemID); err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.repo.Delete(ctx, itemID); err != nil {
			return nil, s.storeError(ctx, "failed to remove cart item", err)
		}
		s.log(ctx).Debug("removed cart item", zap.Int64("item_id", itemID))
		return nil, nil
	}

	if err := s.repo.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return nil, s.storeError(ctx, "failed to update cart item", err)
	}
	s.log(ctx).Debug("updated cart item", zap.Int64("item_id", itemID), zap.Int("quantity", quantity))

	return s.line(ctx, itemID)
}

func (s *CartService) RemoveItem(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLine(ctx, itemID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return s.storeError(ctx, "failed to remove cart item", err)
	}
	s.log(ctx).Debug("removed cart item", zap.Int64("item_id", itemID))
	return nil
}

func (s *CartService) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clear(ctx)
}

// Settle hands the current cart to fn while holding the writer lock and
// clears the cart only when fn succeeds. No line can be added between the
// read and the clear. If fn succeeded but the clear did not, the returned
// error wraps ErrClearFailed and fn's outcome stands.
func (s *CartService) Settle(ctx context.Context, fn func(lines []domain.CartLine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.GetAll(ctx)
	if err != nil {
		return s.internal(ctx, "failed to load cart", err)
	}

	if err := fn(lines); err != nil {
		return err
	}

	if err := s.clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	return nil
}

func (s *CartService) clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return s.internal(ctx, "failed to clear cart", err)
	}
	s.log(ctx).Debug("cleared cart")
	return nil
}

func (s *CartService) requireLine(ctx context.Context, itemID int64) error {
	exists, err := s.repo.Exists(ctx, itemID)
	if err != nil {
		return s.internal(ctx, "failed to check cart item", err)
	}
	if !exists {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (s *CartService) line(ctx context.Context, itemID int64) (*domain.CartLine, error) {
	line, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, s.storeError(ctx, "failed to load cart item", err)
	}
	return line, nil
}

// storeError maps a missing line to NotFound and anything else to an internal error.
func (s *CartService) storeError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, repository.ErrCartLineNotFound) {
		return domain.ErrCartLineNotFound
	}
	return s.internal(ctx, msg, err)
}

func (s *CartService) internal(ctx context.Context, msg string, err error) error {
	s.log(ctx).Error(msg, zap.Error(err))
	return domain.NewInternal(msg, err)
}

func (s *CartService) log(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.logger)
}
