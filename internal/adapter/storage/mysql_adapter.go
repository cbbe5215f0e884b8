package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_number VARCHAR(64) NOT NULL PRIMARY KEY,
		created_at   BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_number VARCHAR(64) NOT NULL,
		line_no      INT NOT NULL,
		sku_code     VARCHAR(255) NOT NULL,
		unit_price   DECIMAL(19,4) NOT NULL,
		quantity     INT NOT NULL,
		UNIQUE KEY uq_order_line (order_number, line_no),
		CONSTRAINT fk_items_order FOREIGN KEY (order_number) REFERENCES orders(order_number) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		sku_code   VARCHAR(255) NOT NULL PRIMARY KEY,
		quantity   INT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
}

// MySQLAdapter stores the order ledger and the inventory ledger in MySQL.
type MySQLAdapter struct {
	sqlLedger
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{sqlLedger{
		db: db,
		upsertStockSQL: `
			INSERT INTO inventory (sku_code, quantity, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), updated_at = VALUES(updated_at)`,
		isDuplicateKey: func(err error) bool {
			var myErr *mysql.MySQLError
			return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
		},
	}}
}

// Migrate creates the tables when they do not exist.
func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	return m.migrate(ctx, mysqlSchema)
}
