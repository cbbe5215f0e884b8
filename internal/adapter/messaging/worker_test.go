package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
	failOn    string
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if order.OrderNumber == p.failOn {
		return errors.New("broker down")
	}
	p.published = append(p.published, order.OrderNumber)
	return nil
}

func TestWorkerLoop_PublishesUntilQueueClosed(t *testing.T) {
	queue := make(chan domain.Order, 3)
	queue <- domain.Order{OrderNumber: "o-1"}
	queue <- domain.Order{OrderNumber: "o-2"}
	queue <- domain.Order{OrderNumber: "o-3"}
	close(queue)

	pub := &recordingPublisher{failOn: "o-2"}
	WorkerLoop(0, queue, pub)

	assert.Equal(t, []string{"o-1", "o-3"}, pub.published)
}

func TestWorkerLoop_NopPublisher(t *testing.T) {
	queue := make(chan domain.Order, 1)
	queue <- domain.Order{OrderNumber: "o-1"}
	close(queue)

	WorkerLoop(0, queue, NopPublisher{})
}

func TestOrderPlacedEvent_JSON(t *testing.T) {
	created := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	evt := NewOrderPlacedEvent(domain.Order{
		OrderNumber: "o-1",
		CreatedAt:   created,
		LineItems: []domain.LineItem{
			{SKUCode: "SKU-A", UnitPrice: decimal.RequireFromString("12.50"), Quantity: 2},
		},
	})

	body, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"orderNumber": "o-1",
		"lineItems": [{"skuCode": "SKU-A", "unitPrice": "12.5", "quantity": 2}],
		"createdAt": "2026-10-15T12:00:00Z"
	}`, string(body))
}
