package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/port"
)

// sqlLedger holds the order and inventory queries shared by the MySQL and
// SQLite adapters. Both dialects accept ? placeholders.
type sqlLedger struct {
	db             *sql.DB
	upsertStockSQL string
	isDuplicateKey func(error) bool
}

func (l *sqlLedger) SaveOrder(ctx context.Context, order domain.Order) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_number, created_at)
		VALUES (?, ?)`,
		order.OrderNumber, order.CreatedAt.UnixNano(),
	)
	if err != nil {
		if l.isDuplicateKey(err) {
			return port.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_number, line_no, sku_code, unit_price, quantity)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare order items: %w", err)
	}
	defer stmt.Close()

	for i, item := range order.LineItems {
		if _, err := stmt.ExecContext(ctx,
			order.OrderNumber, i, item.SKUCode, item.UnitPrice.String(), item.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (l *sqlLedger) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var createdAt int64
	err := l.db.QueryRowContext(ctx, `
		SELECT created_at FROM orders WHERE order_number = ?`, orderNumber,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT sku_code, unit_price, quantity
		FROM order_items WHERE order_number = ?
		ORDER BY line_no`, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	order := domain.Order{
		OrderNumber: orderNumber,
		CreatedAt:   time.Unix(0, createdAt),
	}
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.SKUCode, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.LineItems = append(order.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read order items: %w", err)
	}

	return &order, nil
}

func (l *sqlLedger) FindBySKUCodes(ctx context.Context, skuCodes []string) ([]domain.InventoryRecord, error) {
	if len(skuCodes) == 0 {
		return nil, nil
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT sku_code, quantity FROM inventory
		WHERE sku_code IN (`+placeholders(len(skuCodes))+`)`,
		toAny(skuCodes)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var records []domain.InventoryRecord
	for rows.Next() {
		var r domain.InventoryRecord
		if err := rows.Scan(&r.SKUCode, &r.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (l *sqlLedger) SetStock(ctx context.Context, record domain.InventoryRecord) error {
	_, err := l.db.ExecContext(ctx, l.upsertStockSQL, record.SKUCode, record.Quantity, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

func (l *sqlLedger) migrate(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, v := range xs {
		out[i] = v
	}
	return out
}
