package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

const RoutingKeyOrderPlaced = "order.placed"

type OrderPlacedEvent struct {
	OrderNumber string          `json:"orderNumber"`
	LineItems   []LineItemEvent `json:"lineItems"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type LineItemEvent struct {
	SKUCode   string          `json:"skuCode"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func NewOrderPlacedEvent(order domain.Order) OrderPlacedEvent {
	evt := OrderPlacedEvent{
		OrderNumber: order.OrderNumber,
		LineItems:   make([]LineItemEvent, len(order.LineItems)),
		CreatedAt:   order.CreatedAt,
	}
	for i, it := range order.LineItems {
		evt.LineItems[i] = LineItemEvent{SKUCode: it.SKUCode, UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	return evt
}

// RabbitPublisher publishes order events to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (r *RabbitPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(NewOrderPlacedEvent(order))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return r.ch.PublishWithContext(ctx, r.exchange, RoutingKeyOrderPlaced, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    order.OrderNumber,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (r *RabbitPublisher) Close() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	return nil
}
