package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrders = "foodcart.orders"
	TopicStock  = "foodcart.stock"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProducerConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	Source       string
}

// Producer publishes checkout events to Kafka. It implements port.EventPublisher.
type Producer struct {
	writer messageWriter
	source string
	logger *slog.Logger
}

func NewProducer(cfg ProducerConfig, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	return newProducer(w, cfg.Source, logger)
}

func newProducer(w messageWriter, source string, logger *slog.Logger) *Producer {
	return &Producer{writer: w, source: source, logger: logger}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	data := OrderPlacedData{
		OrderID:       order.ID.String(),
		CustomerID:    order.CustomerID.String(),
		CustomerEmail: order.CustomerEmail,
		PaymentMethod: string(order.PaymentMethod),
		Total:         order.Total.Amount.StringFixed(2),
		Currency:      order.Total.Currency.String(),
		Lines:         make([]OrderPlacedLine, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		data.Lines = append(data.Lines, OrderPlacedLine{
			ProductID: line.ProductID.String(),
			Name:      line.ProductName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.Amount.StringFixed(2),
			Subtotal:  line.Subtotal.Amount.StringFixed(2),
		})
	}

	evt, err := NewEvent(TypeOrderPlaced, order.ID.String(), "order", p.source, data)
	if err != nil {
		return err
	}

	return p.publish(ctx, TopicOrders, evt)
}

func (p *Producer) PublishStockLow(ctx context.Context, productID uuid.UUID, remaining int) error {
	evt, err := NewEvent(TypeStockLow, productID.String(), "product", p.source, StockLowData{
		ProductID: productID.String(),
		Remaining: remaining,
	})
	if err != nil {
		return err
	}

	return p.publish(ctx, TopicStock, evt)
}

func (p *Producer) publish(ctx context.Context, topic string, evt *Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(evt.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "source", Value: []byte(evt.Source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", evt.EventType, topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("event_type", evt.EventType),
		slog.String("aggregate_id", evt.AggregateID),
	)

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, domain.Order) error { return nil }

func (NopPublisher) PublishStockLow(context.Context, uuid.UUID, int) error { return nil }
