package postgres

import (
	"context"

	"fleximart/internal/storage"
)

// warehouseDDL creates the four warehouse tables. Every statement is
// idempotent so repeated runs against the same database are safe.
var warehouseDDL = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id       VARCHAR(16) PRIMARY KEY,
		first_name        VARCHAR(255),
		last_name         VARCHAR(255),
		email             VARCHAR(255) UNIQUE,
		phone             VARCHAR(32),
		city              VARCHAR(128),
		registration_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id     VARCHAR(16) PRIMARY KEY,
		product_name   VARCHAR(255),
		category       VARCHAR(64),
		price          NUMERIC(10,2),
		stock_quantity INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id     VARCHAR(16) PRIMARY KEY,
		customer_id  VARCHAR(16) REFERENCES customers(customer_id),
		order_date   DATE,
		total_amount NUMERIC(12,2),
		status       VARCHAR(32) NOT NULL DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id INTEGER PRIMARY KEY,
		order_id      VARCHAR(16) REFERENCES orders(order_id),
		product_id    VARCHAR(16) REFERENCES products(product_id),
		quantity      INTEGER,
		unit_price    NUMERIC(10,2),
		subtotal      NUMERIC(12,2)
	)`,
}

func bootstrap(ctx context.Context, repo storage.Repository) error {
	return storage.ExecAll(ctx, repo, warehouseDDL)
}
