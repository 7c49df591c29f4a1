package events

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrQueueFull       = errors.New("checkout event queue full")
	ErrPublisherClosed = errors.New("checkout event publisher closed")
)

// Publisher delivers checkout events to a broker.
type Publisher interface {
	PublishCheckoutCompleted(ctx context.Context, receipt *domain.Receipt) error
}

type AsyncSettings struct {
	QueueSize      int
	PublishTimeout time.Duration
}

func DefaultAsyncSettings() AsyncSettings {
	return AsyncSettings{QueueSize: 256, PublishTimeout: 10 * time.Second}
}

// AsyncPublisher queues receipts and hands them to next from a single
// background worker, so callers never wait on the broker. Each delivery runs
// on its own context bounded by PublishTimeout, detached from the caller.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan *domain.Receipt
	done   chan struct{}
}

func NewAsyncPublisher(next Publisher, settings AsyncSettings, logger *zap.Logger) *AsyncPublisher {
	if settings.QueueSize <= 0 {
		settings.QueueSize = DefaultAsyncSettings().QueueSize
	}
	if settings.PublishTimeout <= 0 {
		settings.PublishTimeout = DefaultAsyncSettings().PublishTimeout
	}

	p := &AsyncPublisher{
		next:    next,
		timeout: settings.PublishTimeout,
		logger:  logger,
		queue:   make(chan *domain.Receipt, settings.QueueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// PublishCheckoutCompleted enqueues receipt and returns immediately. It fails
// only when the queue is full or the publisher is closed.
func (p *AsyncPublisher) PublishCheckoutCompleted(_ context.Context, receipt *domain.Receipt) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- receipt:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events, waits for queued ones to be delivered and
// closes next if it is an io.Closer.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done

	if c, ok := p.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for receipt := range p.queue {
		p.deliver(receipt)
	}
}

func (p *AsyncPublisher) deliver(receipt *domain.Receipt) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.next.PublishCheckoutCompleted(ctx, receipt); err != nil {
		p.logger.Warn("checkout event dropped",
			zap.String("order_id", receipt.OrderID),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("checkout event published", zap.String("order_id", receipt.OrderID))
}
