package port

import (
	"context"
	"errors"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

var (
	ErrOrderExists   = errors.New("order already exists")
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepository interface {
	// SaveOrder persists the order and all its line items in one transaction
	SaveOrder(ctx context.Context, order domain.Order) error

	// GetOrder retrieves a committed order by its order number
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
}

type InventoryRepository interface {
	// FindBySKUCodes returns the records that exist for the given codes; unknown codes are omitted
	FindBySKUCodes(ctx context.Context, skuCodes []string) ([]domain.InventoryRecord, error)

	// SetStock creates or replaces the record for a SKU
	SetStock(ctx context.Context, record domain.InventoryRecord) error
}
