package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
)

type mockInventoryRepo struct {
	mu      sync.Mutex
	records map[string]int
	findErr error
	sets    int
}

func newMockInventoryRepo(records map[string]int) *mockInventoryRepo {
	if records == nil {
		records = make(map[string]int)
	}
	return &mockInventoryRepo{records: records}
}

func (m *mockInventoryRepo) FindBySKUCodes(ctx context.Context, skuCodes []string) ([]domain.InventoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.InventoryRecord
	for _, code := range skuCodes {
		if qty, ok := m.records[code]; ok {
			out = append(out, domain.InventoryRecord{SKUCode: code, Quantity: qty})
		}
	}
	return out, nil
}

func (m *mockInventoryRepo) SetStock(ctx context.Context, record domain.InventoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.SKUCode] = record.Quantity
	m.sets++
	return nil
}

func TestCheckStock_OneEntryPerDistinctCode(t *testing.T) {
	svc := NewInventoryService(newMockInventoryRepo(map[string]int{"SKU-A": 5, "SKU-B": 0}))

	got, err := svc.CheckStock(context.Background(), []string{"SKU-A", "SKU-C", "SKU-A", "SKU-B"})
	require.NoError(t, err)

	assert.Equal(t, []domain.Availability{
		{SKUCode: "SKU-A", InStock: true},
		{SKUCode: "SKU-C", InStock: false},
		{SKUCode: "SKU-B", InStock: false},
	}, got)
}

func TestCheckStock_ReadIsIdempotent(t *testing.T) {
	repo := newMockInventoryRepo(map[string]int{"SKU-A": 5, "SKU-B": 0})
	svc := NewInventoryService(repo)
	codes := []string{"SKU-A", "SKU-B", "SKU-C"}

	first, err := svc.CheckStock(context.Background(), codes)
	require.NoError(t, err)
	second, err := svc.CheckStock(context.Background(), codes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, repo.sets)
	assert.Equal(t, map[string]int{"SKU-A": 5, "SKU-B": 0}, repo.records)
}

func TestCheckStock_NoCodes(t *testing.T) {
	svc := NewInventoryService(newMockInventoryRepo(nil))

	_, err := svc.CheckStock(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCheckStock_RepositoryError(t *testing.T) {
	repo := newMockInventoryRepo(nil)
	repo.findErr = errors.New("connection refused")
	svc := NewInventoryService(repo)

	_, err := svc.CheckStock(context.Background(), []string{"SKU-A"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
}

func TestSetStock_Validation(t *testing.T) {
	svc := NewInventoryService(newMockInventoryRepo(nil))

	assert.ErrorIs(t, svc.SetStock(context.Background(), "", 1), ErrInvalidRequest)
	assert.ErrorIs(t, svc.SetStock(context.Background(), "SKU-A", -1), ErrInvalidRequest)
	assert.NoError(t, svc.SetStock(context.Background(), "SKU-A", 0))
}

func TestSeed_KeepsExistingQuantities(t *testing.T) {
	repo := newMockInventoryRepo(map[string]int{"ThinkPad 15": 3})
	svc := NewInventoryService(repo)

	require.NoError(t, svc.Seed(context.Background(), DefaultStock))

	assert.Equal(t, 3, repo.records["ThinkPad 15"])
	assert.Equal(t, 20, repo.records["Lenovo Legion"])
	assert.Equal(t, 1, repo.sets)
}
