package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

func getMySQLAdapter(t *testing.T) (*MySQLAdapter, *sql.DB) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/orders?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	adapter := NewMySQLAdapter(db)
	require.NoError(t, adapter.Migrate(context.Background()))
	return adapter, db
}

func TestMySQL_SaveAndGetOrder(t *testing.T) {
	adapter, db := getMySQLAdapter(t)
	ctx := context.Background()
	order := testOrder()
	defer db.ExecContext(ctx, `DELETE FROM orders WHERE order_number = ?`, order.OrderNumber)

	require.NoError(t, adapter.SaveOrder(ctx, order))

	got, err := adapter.GetOrder(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, got.LineItems, len(order.LineItems))
	assert.True(t, got.LineItems[0].UnitPrice.Equal(order.LineItems[0].UnitPrice))

	// Saving the same order number again must not create a second copy.
	assert.ErrorIs(t, adapter.SaveOrder(ctx, order), port.ErrOrderExists)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM order_items WHERE order_number = ?`, order.OrderNumber).Scan(&count))
	assert.Equal(t, len(order.LineItems), count)
}

func TestMySQL_GetOrderNotFound(t *testing.T) {
	adapter, _ := getMySQLAdapter(t)

	_, err := adapter.GetOrder(context.Background(), "nonexistent-order")
	assert.ErrorIs(t, err, port.ErrOrderNotFound)
}

func TestMySQL_FindBySKUCodes(t *testing.T) {
	adapter, db := getMySQLAdapter(t)
	ctx := context.Background()
	defer db.ExecContext(ctx, `DELETE FROM inventory WHERE sku_code LIKE 'mysql-test-%'`)

	require.NoError(t, adapter.SetStock(ctx, domain.InventoryRecord{SKUCode: "mysql-test-a", Quantity: 50}))
	require.NoError(t, adapter.SetStock(ctx, domain.InventoryRecord{SKUCode: "mysql-test-b", Quantity: 0}))
	require.NoError(t, adapter.SetStock(ctx, domain.InventoryRecord{SKUCode: "mysql-test-a", Quantity: 40}))

	records, err := adapter.FindBySKUCodes(ctx, []string{"mysql-test-a", "mysql-test-b", "mysql-test-missing"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.InventoryRecord{
		{SKUCode: "mysql-test-a", Quantity: 40},
		{SKUCode: "mysql-test-b", Quantity: 0},
	}, records)
}
