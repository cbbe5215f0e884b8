package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrOutOfStock            = errors.New("out of stock")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrOrderNotSaved         = errors.New("order not saved")
	ErrDuplicateRequest      = errors.New("duplicate request")
	ErrOrderNotFound         = errors.New("order not found")
)

const (
	idempotencyKeyPrefix = "order:request:"
	saveTimeout          = 5 * time.Second
)

// LineItemRequest is one requested line before it becomes part of an order.
type LineItemRequest struct {
	SKUCode   string
	UnitPrice decimal.Decimal
	Quantity  int
}

// OrderService decides whether an order is committed or rejected based on a
// single live availability read. The read and the save are not atomic:
// concurrent placements for the same scarce SKU can both commit.
type OrderService struct {
	orders    port.OrderRepository
	inventory port.InventoryClient
	cache     port.CacheRepository
	tracer    trace.Tracer

	mu          sync.RWMutex
	closed      bool
	placedQueue chan domain.Order

	newOrderNumber func() string
	now            func() time.Time
}

// NewOrderService wires the placement workflow. cache may be nil, in which
// case request ids are ignored.
func NewOrderService(orders port.OrderRepository, inventory port.InventoryClient, cache port.CacheRepository, queueSize int) *OrderService {
	return &OrderService{
		orders:         orders,
		inventory:      inventory,
		cache:          cache,
		tracer:         otel.Tracer("order-fulfillment/order-service"),
		placedQueue:    make(chan domain.Order, queueSize),
		newOrderNumber: uuid.NewString,
		now:            time.Now,
	}
}

// BuildOrder turns requested line items into an order with a fresh order
// number. It has no side effects and never looks at stock.
func (s *OrderService) BuildOrder(items []LineItemRequest) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no line items", ErrInvalidRequest)
	}

	lineItems := make([]domain.LineItem, 0, len(items))
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.SKUCode) == "":
			return domain.Order{}, fmt.Errorf("%w: line %d has no sku code", ErrInvalidRequest, i)
		case item.Quantity <= 0:
			return domain.Order{}, fmt.Errorf("%w: line %d has quantity %d", ErrInvalidRequest, i, item.Quantity)
		case item.UnitPrice.IsNegative():
			return domain.Order{}, fmt.Errorf("%w: line %d has negative price", ErrInvalidRequest, i)
		}
		lineItems = append(lineItems, domain.LineItem{
			SKUCode:   item.SKUCode,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return domain.Order{
		OrderNumber: s.newOrderNumber(),
		LineItems:   lineItems,
		CreatedAt:   s.now(),
	}, nil
}

// PlaceOrder builds and places an order. A non-empty requestID is claimed in
// the cache first; it stays claimed only if the order is committed.
func (s *OrderService) PlaceOrder(ctx context.Context, requestID string, items []LineItemRequest) (*domain.Order, error) {
	order, err := s.BuildOrder(items)
	if err != nil {
		return nil, err
	}

	if requestID == "" || s.cache == nil {
		return s.Place(ctx, order)
	}

	key := idempotencyKeyPrefix + requestID
	ok, err := s.cache.SetIdempotency(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: idempotency check failed: %w", ErrDependencyUnavailable, err)
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}

	placed, err := s.Place(ctx, order)
	if err != nil {
		if releaseErr := s.cache.ReleaseIdempotency(context.WithoutCancel(ctx), key); releaseErr != nil {
			log.Warn().Err(releaseErr).Str("request_id", requestID).Msg("failed to release idempotency key")
		}
		return nil, err
	}
	return placed, nil
}

// Place runs the commit-or-reject decision for a built order: one batched
// availability read, then a strict conjunction over the distinct SKU codes.
// Only an all-in-stock order is saved. Presence is checked per SKU, not the
// requested quantity per line.
func (s *OrderService) Place(ctx context.Context, order domain.Order) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.place", trace.WithAttributes(
		attribute.String("order.number", order.OrderNumber),
	))
	defer span.End()

	skuCodes := order.SKUCodes()
	span.SetAttributes(attribute.Int("order.sku_count", len(skuCodes)))
	logger := log.With().Str("order_number", order.OrderNumber).Int("sku_count", len(skuCodes)).Logger()

	stock, err := s.inventory.CheckStock(ctx, skuCodes)
	if ctxErr := ctx.Err(); ctxErr != nil {
		span.SetStatus(codes.Error, "abandoned")
		logger.Warn().Err(ctxErr).Msg("placement abandoned by caller")
		return nil, fmt.Errorf("%w: placement abandoned: %w", ErrDependencyUnavailable, ctxErr)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inventory unavailable")
		logger.Warn().Err(err).Msg("inventory check failed")
		return nil, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	if missing := firstUnavailable(skuCodes, stock); missing != "" {
		span.SetAttributes(attribute.Bool("inventory.in_stock", false))
		logger.Info().Str("reason", "OutOfStock").Str("sku_code", missing).Msg("order rejected")
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, missing)
	}
	span.SetAttributes(attribute.Bool("inventory.in_stock", true))

	// Past this point the caller can no longer cancel.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.orders.SaveOrder(saveCtx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		logger.Error().Err(err).Msg("failed to save order")
		return nil, fmt.Errorf("%w: %w", ErrOrderNotSaved, err)
	}

	logger.Info().Msg("order placed")
	s.enqueuePlaced(order)
	return &order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderNumber)
	if errors.Is(err, port.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// firstUnavailable returns the first code that is not reported in stock.
// A code missing from the answer counts as out of stock.
func firstUnavailable(skuCodes []string, stock map[string]bool) string {
	for _, code := range skuCodes {
		if !stock[code] {
			return code
		}
	}
	return ""
}

// enqueuePlaced hands a committed order to the event workers without blocking
// the caller. Events are best-effort.
func (s *OrderService) enqueuePlaced(order domain.Order) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.placedQueue <- order:
	default:
		log.Warn().Str("order_number", order.OrderNumber).Msg("placed-order queue full, event dropped")
	}
}

func (s *OrderService) GetPlacedQueue() <-chan domain.Order {
	return s.placedQueue
}

func (s *OrderService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.placedQueue)
}
