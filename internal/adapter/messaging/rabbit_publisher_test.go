package messaging

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

func TestRabbitPublisher_PublishOrderPlaced(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}
	exchange := "orders-test"

	pub, err := NewRabbitPublisher(url, exchange)
	if err != nil {
		t.Skipf("RabbitMQ not available: %v", err)
	}
	defer pub.Close()

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, RoutingKeyOrderPlaced, exchange, false, nil))
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	order := domain.Order{OrderNumber: "rabbit-test-1", CreatedAt: time.Now()}
	require.NoError(t, pub.PublishOrderPlaced(context.Background(), order))

	select {
	case msg := <-msgs:
		var evt OrderPlacedEvent
		require.NoError(t, json.Unmarshal(msg.Body, &evt))
		assert.Equal(t, order.OrderNumber, evt.OrderNumber)
		assert.Equal(t, order.OrderNumber, msg.MessageId)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}
