package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"fleximart/internal/schema"
)

// writeSplitFiles overwrites orders.csv and order_items.csv with the current
// decomposition. os.Create truncates, so stale rows from earlier runs never
// survive.
func (p *Pipeline) writeSplitFiles(orders []schema.Order, items []schema.OrderItem) error {
	ordersPath := p.outPath(p.cfg.Output.Orders)
	if err := writeCSV(ordersPath, schema.OrderColumns, orderRows(orders)); err != nil {
		return fmt.Errorf("write %s: %w", ordersPath, err)
	}
	p.logger.Printf("run %s: wrote %d orders to %s", p.runID, len(orders), ordersPath)

	itemsPath := p.outPath(p.cfg.Output.OrderItems)
	if err := writeCSV(itemsPath, schema.OrderItemColumns, orderItemRows(items)); err != nil {
		return fmt.Errorf("write %s: %w", itemsPath, err)
	}
	p.logger.Printf("run %s: wrote %d order items to %s", p.runID, len(items), itemsPath)
	return nil
}

func writeCSV(path string, header []string, rows [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		if err := w.Write(cells); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// cellString renders a row value for CSV output. nil becomes an empty cell.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Row builders shared by the CSV writers and the database loaders. Column
// order must match the schema.*Columns slices.

func customerRows(customers []schema.Customer) [][]any {
	rows := make([][]any, len(customers))
	for i, c := range customers {
		rows[i] = []any{
			c.CustomerID, c.FirstName, c.LastName, c.Email,
			strPtr(c.Phone), strPtr(c.City), strPtr(c.RegistrationDate),
		}
	}
	return rows
}

func productRows(products []schema.Product) [][]any {
	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = []any{p.ProductID, p.ProductName, strPtr(p.Category), p.Price, p.StockQuantity}
	}
	return rows
}

func orderRows(orders []schema.Order) [][]any {
	rows := make([][]any, len(orders))
	for i, o := range orders {
		rows[i] = []any{o.OrderID, o.CustomerID, strPtr(o.OrderDate), o.TotalAmount, o.Status}
	}
	return rows
}

func orderItemRows(items []schema.OrderItem) [][]any {
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{it.OrderItemID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal}
	}
	return rows
}

// strPtr unwraps an optional string into a nullable cell value.
func strPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
