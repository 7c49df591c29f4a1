package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/abraxas0001/E-Com-Cart/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Publisher is notified of every completed checkout.
type Publisher interface {
	PublishCheckoutCompleted(ctx context.Context, receipt *domain.Receipt) error
}

// CartSettler is the part of the cart engine checkout depends on.
type CartSettler interface {
	ClearCart(ctx context.Context) error
	Settle(ctx context.Context, fn func(lines []domain.CartLine) error) error
}

type CheckoutService struct {
	cart      CartSettler
	publisher Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

type CheckoutOption func(*CheckoutService)

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

func WithIDGenerator(newID func() string) CheckoutOption {
	return func(s *CheckoutService) { s.newID = newID }
}

func NewCheckoutService(cart CartSettler, publisher Publisher, logger *zap.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		cart:      cart,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessOrder validates the customer, prices the supplied lines into a
// receipt and clears the cart. The receipt is returned even if the clear
// fails; that failure is only logged.
func (s *CheckoutService) ProcessOrder(ctx context.Context, lines []domain.CartLine, name, email string) (*domain.Receipt, error) {
	receipt, err := s.buildReceipt(lines, name, email)
	if err != nil {
		return nil, err
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		s.log(ctx).Error("cart clear failed after checkout",
			zap.String("order_id", receipt.OrderID),
			zap.Error(err),
		)
	}

	s.completed(ctx, receipt)
	return receipt, nil
}

// Checkout bills the current cart. Reading, pricing and clearing happen under
// the cart's writer lock so that nothing added concurrently is cleared unbilled.
func (s *CheckoutService) Checkout(ctx context.Context, name, email string) (*domain.Receipt, error) {
	var receipt *domain.Receipt
	err := s.cart.Settle(ctx, func(lines []domain.CartLine) error {
		r, err := s.buildReceipt(lines, name, email)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrClearFailed) && receipt != nil:
		s.log(ctx).Error("cart clear failed after checkout",
			zap.String("order_id", receipt.OrderID),
			zap.Error(err),
		)
	default:
		return nil, err
	}

	s.completed(ctx, receipt)
	return receipt, nil
}

func (s *CheckoutService) buildReceipt(lines []domain.CartLine, name, email string) (*domain.Receipt, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}

	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	items := make([]domain.CartLine, len(lines))
	copy(items, lines)

	return &domain.Receipt{
		OrderID:      s.newID(),
		CustomerName: name,
		Email:        strings.TrimSpace(email),
		Total:        domain.SumLineTotals(items),
		Timestamp:    s.now().UTC().Truncate(time.Millisecond),
		Items:        items,
	}, nil
}

func (s *CheckoutService) completed(ctx context.Context, receipt *domain.Receipt) {
	l := s.log(ctx)
	l.Info("checkout completed",
		zap.String("order_id", receipt.OrderID),
		zap.String("total", receipt.Total.StringFixed(2)),
		zap.Int("items", len(receipt.Items)),
	)

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCheckoutCompleted(ctx, receipt); err != nil {
		l.Warn("failed to publish checkout event",
			zap.String("order_id", receipt.OrderID),
			zap.Error(err),
		)
	}
}

func (s *CheckoutService) log(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.logger)
}
