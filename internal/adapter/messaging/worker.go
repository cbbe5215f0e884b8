package messaging

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

const publishTimeout = 5 * time.Second

// WorkerLoop publishes placed orders until the queue is closed. A failed
// publish is logged and the order stays committed.
func WorkerLoop(id int, queue <-chan domain.Order, publisher port.EventPublisher) {
	for order := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)

		if err := publisher.PublishOrderPlaced(ctx, order); err != nil {
			log.Error().Err(err).Int("worker", id).Str("order_number", order.OrderNumber).Msg("failed to publish order placed")
		} else {
			log.Debug().Int("worker", id).Str("order_number", order.OrderNumber).Msg("published order placed")
		}

		cancel()
	}
}
