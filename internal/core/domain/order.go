package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	SKUCode   string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Order is built in memory and either saved exactly once with all of its
// line items or discarded. There is no pending state in between.
type Order struct {
	OrderNumber string
	LineItems   []LineItem
	CreatedAt   time.Time
}

// SKUCodes returns the distinct SKU codes of the order in first-seen order.
func (o Order) SKUCodes() []string {
	codes := make([]string, len(o.LineItems))
	for i, item := range o.LineItems {
		codes[i] = item.SKUCode
	}
	return DistinctSKUCodes(codes)
}
