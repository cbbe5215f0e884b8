package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_number TEXT PRIMARY KEY,
		created_at   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		order_number TEXT NOT NULL REFERENCES orders(order_number) ON DELETE CASCADE,
		line_no      INTEGER NOT NULL,
		sku_code     TEXT NOT NULL,
		unit_price   TEXT NOT NULL,
		quantity     INTEGER NOT NULL,
		UNIQUE (order_number, line_no)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_order ON order_items(order_number)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		sku_code   TEXT PRIMARY KEY,
		quantity   INTEGER NOT NULL CHECK (quantity >= 0),
		updated_at INTEGER NOT NULL
	)`,
}

// SQLiteAdapter stores the ledgers in an embedded SQLite database.
type SQLiteAdapter struct {
	sqlLedger
}

// OpenSQLite opens path (":memory:" for a private in-memory database) and
// creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteAdapter, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; also keeps a :memory: database on a single connection.
	db.SetMaxOpenConns(1)

	adapter := NewSQLiteAdapter(db)
	if err := adapter.migrate(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return adapter, nil
}

func NewSQLiteAdapter(db *sql.DB) *SQLiteAdapter {
	return &SQLiteAdapter{sqlLedger{
		db: db,
		upsertStockSQL: `
			INSERT INTO inventory (sku_code, quantity, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(sku_code) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		isDuplicateKey: func(err error) bool {
			var liteErr *sqlite.Error
			return errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
		},
	}}
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}
