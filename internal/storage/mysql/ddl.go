package mysql

import (
	"context"

	"fleximart/internal/storage"
)

var warehouseDDL = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id       VARCHAR(16) PRIMARY KEY,
		first_name        VARCHAR(255),
		last_name         VARCHAR(255),
		email             VARCHAR(255) UNIQUE,
		phone             VARCHAR(32),
		city              VARCHAR(128),
		registration_date DATE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id     VARCHAR(16) PRIMARY KEY,
		product_name   VARCHAR(255),
		category       VARCHAR(64),
		price          DECIMAL(10,2),
		stock_quantity INT
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id     VARCHAR(16) PRIMARY KEY,
		customer_id  VARCHAR(16),
		order_date   DATE,
		total_amount DECIMAL(12,2),
		status       VARCHAR(32) NOT NULL DEFAULT 'Pending',
		FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id INT PRIMARY KEY,
		order_id      VARCHAR(16),
		product_id    VARCHAR(16),
		quantity      INT,
		unit_price    DECIMAL(10,2),
		subtotal      DECIMAL(12,2),
		FOREIGN KEY (order_id) REFERENCES orders(order_id),
		FOREIGN KEY (product_id) REFERENCES products(product_id)
	) ENGINE=InnoDB`,
}

func bootstrap(ctx context.Context, repo storage.Repository) error {
	return storage.ExecAll(ctx, repo, warehouseDDL)
}
