package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testReceipt() *domain.Receipt {
	return &domain.Receipt{
		OrderID:      "order-123",
		CustomerName: "John Doe",
		Email:        "john@example.com",
		Total:        decimal.RequireFromString("32499.99"),
		Timestamp:    time.Date(2024, 3, 9, 9, 0, 15, 123000000, time.UTC),
		Items: []domain.CartLine{
			domain.NewCartLine(1, 1, "Smartphone Pro 1", decimal.NewFromInt(15000), 2),
			domain.NewCartLine(2, 3, "Wireless Headphones", decimal.RequireFromString("2499.99"), 1),
		},
	}
}

func TestPublishCheckoutCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.PublishCheckoutCompleted(context.Background(), testReceipt()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "order-123", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, CheckoutCompletedEvent, string(msg.Headers[0].Value))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "order-123", payload["orderId"])
	assert.Equal(t, "John Doe", payload["customerName"])
	assert.Equal(t, 32499.99, payload["total"])
	assert.Equal(t, "2024-03-09T09:00:15.123Z", payload["timestamp"])

	items := payload["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(30000), first["lineTotal"])
	assert.Equal(t, float64(2), first["quantity"])
}

func TestPublishCheckoutCompleted_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &KafkaPublisher{writer: w}

	err := p.PublishCheckoutCompleted(context.Background(), testReceipt())
	require.ErrorContains(t, err, "publish checkout event failed")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.PublishCheckoutCompleted(context.Background(), testReceipt()))
	assert.NoError(t, Noop{}.Close())
}

func TestPublishCheckoutCompleted_Kafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka container test in short mode")
	}
	ctx := context.Background()

	kafkaContainer, err := kafkacontainer.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)

	p := NewKafkaPublisher("checkout-completed", brokers...)
	defer p.Close()

	writeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for {
		err = p.PublishCheckoutCompleted(writeCtx, testReceipt())
		if err == nil || writeCtx.Err() != nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-completed",
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
	defer cancelRead()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)
	assert.Equal(t, "order-123", string(msg.Key))
}
