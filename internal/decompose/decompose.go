// Package decompose derives the order and order-item datasets from the
// canonical sales transaction set. The decomposition is strictly 1:1 with
// transactions: the source feed has no multi-line orders. GroupFunc is the
// extension point for a future grouping key; the default groups each
// transaction alone.
package decompose

import (
	"fmt"
	"log"

	"fleximart/internal/schema"
)

// DefaultStatus is assigned to orders whose source transaction carries no
// status.
const DefaultStatus = "Pending"

// GroupFunc returns the order grouping key for a transaction. The default
// (nil) uses the transaction id, giving one order per transaction.
type GroupFunc func(schema.SalesTransaction) string

// Decomposer splits cleaned sales into orders and order items in one pass.
type Decomposer struct {
	GroupBy GroupFunc
	Logger  *log.Logger
}

// Orders derives one order per surviving transaction. total_amount is
// quantity times unit price. Exact-duplicate resulting rows are dropped
// defensively; upstream transaction dedup should already make this a no-op.
func (d Decomposer) Orders(sales []schema.SalesTransaction) []schema.Order {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	groupBy := d.GroupBy
	if groupBy == nil {
		groupBy = func(tx schema.SalesTransaction) string { return tx.TransactionID }
	}

	seen := make(map[string]struct{}, len(sales))
	out := make([]schema.Order, 0, len(sales))
	for _, tx := range sales {
		status := DefaultStatus
		if tx.Status != nil && *tx.Status != "" {
			status = *tx.Status
		}
		o := schema.Order{
			OrderID:     groupBy(tx),
			CustomerID:  tx.CustomerID,
			OrderDate:   tx.TransactionDate,
			TotalAmount: float64(tx.Quantity) * tx.UnitPrice,
			Status:      status,
		}
		key := orderKey(o)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, o)
	}
	logger.Printf("decompose: orders=%d from transactions=%d", len(out), len(sales))
	return out
}

// orderKey fingerprints an order by value, so the defensive dedup compares
// dates by content rather than pointer identity.
func orderKey(o schema.Order) string {
	date := "\x00"
	if o.OrderDate != nil {
		date = *o.OrderDate
	}
	return fmt.Sprintf("%s\x1f%s\x1f%s\x1f%g\x1f%s", o.OrderID, o.CustomerID, date, o.TotalAmount, o.Status)
}

// Items derives one order item per transaction. order_item_id is the 1-based
// position in the cleaned sales sequence; that ties item identity to the
// current run's row order, which is stable only while inputs arrive in the
// same order.
func (d Decomposer) Items(sales []schema.SalesTransaction) []schema.OrderItem {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	groupBy := d.GroupBy
	if groupBy == nil {
		groupBy = func(tx schema.SalesTransaction) string { return tx.TransactionID }
	}

	out := make([]schema.OrderItem, 0, len(sales))
	for i, tx := range sales {
		out = append(out, schema.OrderItem{
			OrderItemID: i + 1,
			OrderID:     groupBy(tx),
			ProductID:   tx.ProductID,
			Quantity:    tx.Quantity,
			UnitPrice:   tx.UnitPrice,
			Subtotal:    float64(tx.Quantity) * tx.UnitPrice,
		})
	}
	logger.Printf("decompose: order_items=%d", len(out))
	return out
}
