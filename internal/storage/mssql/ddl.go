package mssql

import (
	"context"

	"fleximart/internal/storage"
)

// SQL Server has no CREATE TABLE IF NOT EXISTS; each statement guards with
// OBJECT_ID instead.
var warehouseDDL = []string{
	`IF OBJECT_ID(N'customers', N'U') IS NULL
	CREATE TABLE customers (
		customer_id       NVARCHAR(16) PRIMARY KEY,
		first_name        NVARCHAR(255),
		last_name         NVARCHAR(255),
		email             NVARCHAR(255) UNIQUE,
		phone             NVARCHAR(32),
		city              NVARCHAR(128),
		registration_date DATE
	)`,
	`IF OBJECT_ID(N'products', N'U') IS NULL
	CREATE TABLE products (
		product_id     NVARCHAR(16) PRIMARY KEY,
		product_name   NVARCHAR(255),
		category       NVARCHAR(64),
		price          DECIMAL(10,2),
		stock_quantity INT
	)`,
	`IF OBJECT_ID(N'orders', N'U') IS NULL
	CREATE TABLE orders (
		order_id     NVARCHAR(16) PRIMARY KEY,
		customer_id  NVARCHAR(16) REFERENCES customers(customer_id),
		order_date   DATE,
		total_amount DECIMAL(12,2),
		status       NVARCHAR(32) NOT NULL DEFAULT 'Pending'
	)`,
	`IF OBJECT_ID(N'order_items', N'U') IS NULL
	CREATE TABLE order_items (
		order_item_id INT PRIMARY KEY,
		order_id      NVARCHAR(16) REFERENCES orders(order_id),
		product_id    NVARCHAR(16) REFERENCES products(product_id),
		quantity      INT,
		unit_price    DECIMAL(10,2),
		subtotal      DECIMAL(12,2)
	)`,
}

func bootstrap(ctx context.Context, repo storage.Repository) error {
	return storage.ExecAll(ctx, repo, warehouseDDL)
}
