package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/segmentio/kafka-go"
)

const CheckoutCompletedEvent = "checkout.completed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type checkoutLine struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type checkoutCompleted struct {
	OrderID      string         `json:"orderId"`
	CustomerName string         `json:"customerName"`
	Email        string         `json:"email"`
	Total        float64        `json:"total"`
	Timestamp    string         `json:"timestamp"`
	Items        []checkoutLine `json:"items"`
}

// KafkaPublisher emits one message per completed checkout, keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, receipt *domain.Receipt) error {
	payload, err := json.Marshal(newCheckoutCompleted(receipt))
	if err != nil {
		return fmt.Errorf("marshal checkout event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(receipt.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(CheckoutCompletedEvent)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish checkout event failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newCheckoutCompleted(r *domain.Receipt) checkoutCompleted {
	items := make([]checkoutLine, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, checkoutLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal.InexactFloat64(),
		})
	}

	return checkoutCompleted{
		OrderID:      r.OrderID,
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Total:        r.Total.InexactFloat64(),
		Timestamp:    r.FormattedTimestamp(),
		Items:        items,
	}
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishCheckoutCompleted(context.Context, *domain.Receipt) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
