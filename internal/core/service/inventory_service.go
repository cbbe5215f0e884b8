package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

// DefaultStock is loaded by the inventory service on start when seeding is enabled.
var DefaultStock = []domain.InventoryRecord{
	{SKUCode: "ThinkPad 15", Quantity: 100},
	{SKUCode: "Lenovo Legion", Quantity: 20},
}

// InventoryService answers availability queries against the inventory ledger.
// Reads never mutate records.
type InventoryService struct {
	repo   port.InventoryRepository
	tracer trace.Tracer
}

func NewInventoryService(repo port.InventoryRepository) *InventoryService {
	return &InventoryService{
		repo:   repo,
		tracer: otel.Tracer("order-fulfillment/inventory-service"),
	}
}

// CheckStock returns exactly one entry per distinct requested code, in
// request order. Codes without a record are reported as not in stock.
func (s *InventoryService) CheckStock(ctx context.Context, skuCodes []string) ([]domain.Availability, error) {
	codes := domain.DistinctSKUCodes(skuCodes)
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no sku codes", ErrInvalidRequest)
	}

	ctx, span := s.tracer.Start(ctx, "inventory.check_stock", trace.WithAttributes(
		attribute.Int("inventory.sku_count", len(codes)),
	))
	defer span.End()

	records, err := s.repo.FindBySKUCodes(ctx, codes)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find inventory: %w", err)
	}

	quantities := make(map[string]int, len(records))
	for _, r := range records {
		quantities[r.SKUCode] = r.Quantity
	}

	result := make([]domain.Availability, 0, len(codes))
	for _, code := range codes {
		qty, found := quantities[code]
		result = append(result, domain.Availability{
			SKUCode: code,
			InStock: found && qty > 0,
		})
	}
	return result, nil
}

// SetStock creates or replaces the record for a SKU.
func (s *InventoryService) SetStock(ctx context.Context, skuCode string, quantity int) error {
	if strings.TrimSpace(skuCode) == "" {
		return fmt.Errorf("%w: empty sku code", ErrInvalidRequest)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d", ErrInvalidRequest, quantity)
	}

	if err := s.repo.SetStock(ctx, domain.InventoryRecord{SKUCode: skuCode, Quantity: quantity}); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	log.Info().Str("sku_code", skuCode).Int("quantity", quantity).Msg("stock set")
	return nil
}

// Seed creates the given records when they do not exist yet. Existing
// records keep their quantity.
func (s *InventoryService) Seed(ctx context.Context, records []domain.InventoryRecord) error {
	codes := make([]string, len(records))
	for i, r := range records {
		codes[i] = r.SKUCode
	}

	existing, err := s.repo.FindBySKUCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("find inventory: %w", err)
	}
	present := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		present[r.SKUCode] = struct{}{}
	}

	for _, r := range records {
		if _, ok := present[r.SKUCode]; ok {
			continue
		}
		if err := s.SetStock(ctx, r.SKUCode, r.Quantity); err != nil {
			return err
		}
	}
	return nil
}
