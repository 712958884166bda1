package sqlite

import (
	"context"

	"fleximart/internal/storage"
)

var warehouseDDL = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id       TEXT PRIMARY KEY,
		first_name        TEXT,
		last_name         TEXT,
		email             TEXT UNIQUE,
		phone             TEXT,
		city              TEXT,
		registration_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id     TEXT PRIMARY KEY,
		product_name   TEXT,
		category       TEXT,
		price          REAL,
		stock_quantity INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id     TEXT PRIMARY KEY,
		customer_id  TEXT REFERENCES customers(customer_id),
		order_date   TEXT,
		total_amount REAL,
		status       TEXT NOT NULL DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id INTEGER PRIMARY KEY,
		order_id      TEXT REFERENCES orders(order_id),
		product_id    TEXT REFERENCES products(product_id),
		quantity      INTEGER,
		unit_price    REAL,
		subtotal      REAL
	)`,
}

func bootstrap(ctx context.Context, repo storage.Repository) error {
	return storage.ExecAll(ctx, repo, warehouseDDL)
}
