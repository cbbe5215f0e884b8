package port

import (
	"context"
	"errors"
)

// ErrDependencyUnavailable is returned by an InventoryClient when the inventory
// service could not answer: timeout, transport failure or an unusable response.
var ErrDependencyUnavailable = errors.New("inventory service unavailable")

type InventoryClient interface {
	// CheckStock issues a single query for the given codes and returns an
	// in-stock flag per distinct code. It never retries. Failures to get an
	// answer wrap ErrDependencyUnavailable; an empty code list is rejected
	// without a query and does not.
	CheckStock(ctx context.Context, skuCodes []string) (map[string]bool, error)
}
