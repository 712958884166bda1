package decompose

import (
	"io"
	"log"
	"testing"

	"fleximart/internal/schema"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func strptr(s string) *string { return &s }

func tx(id string, qty int, price float64) schema.SalesTransaction {
	return schema.SalesTransaction{
		TransactionID:   id,
		CustomerID:      "001",
		ProductID:       "002",
		Quantity:        qty,
		UnitPrice:       price,
		TransactionDate: strptr("2023-03-15"),
	}
}

func TestOrdersTotals(t *testing.T) {
	t.Parallel()

	d := Decomposer{Logger: quietLogger()}
	got := d.Orders([]schema.SalesTransaction{tx("T1", 3, 5.0)})
	if len(got) != 1 {
		t.Fatalf("orders = %d, want 1", len(got))
	}
	o := got[0]
	if o.OrderID != "T1" {
		t.Errorf("order_id = %q, want T1", o.OrderID)
	}
	if o.TotalAmount != 15.0 {
		t.Errorf("total_amount = %v, want 15.0", o.TotalAmount)
	}
	if o.Status != "Pending" {
		t.Errorf("status = %q, want Pending default", o.Status)
	}
	if o.OrderDate == nil || *o.OrderDate != "2023-03-15" {
		t.Errorf("order_date = %v, want 2023-03-15", o.OrderDate)
	}
}

func TestOrdersKeepExplicitStatus(t *testing.T) {
	t.Parallel()

	s := tx("T1", 1, 1)
	s.Status = strptr("Delivered")
	got := Decomposer{Logger: quietLogger()}.Orders([]schema.SalesTransaction{s})
	if got[0].Status != "Delivered" {
		t.Errorf("status = %q, want Delivered", got[0].Status)
	}
}

func TestOrdersDefensiveDedup(t *testing.T) {
	t.Parallel()

	// Identical transactions produce one order even if upstream dedup was
	// bypassed; dates must compare by value.
	in := []schema.SalesTransaction{tx("T1", 2, 4), tx("T1", 2, 4)}
	got := Decomposer{Logger: quietLogger()}.Orders(in)
	if len(got) != 1 {
		t.Fatalf("orders = %d, want 1", len(got))
	}
}

func TestItemsPositionalIDs(t *testing.T) {
	t.Parallel()

	in := []schema.SalesTransaction{tx("T1", 3, 5.0), tx("T2", 1, 2.5)}
	got := Decomposer{Logger: quietLogger()}.Items(in)
	if len(got) != 2 {
		t.Fatalf("items = %d, want 2", len(got))
	}
	if got[0].OrderItemID != 1 || got[1].OrderItemID != 2 {
		t.Errorf("order_item_ids = %d, %d, want 1, 2", got[0].OrderItemID, got[1].OrderItemID)
	}
	if got[0].Subtotal != 15.0 {
		t.Errorf("subtotal = %v, want 15.0", got[0].Subtotal)
	}
	if got[0].OrderID != "T1" || got[1].OrderID != "T2" {
		t.Errorf("order ids = %q, %q", got[0].OrderID, got[1].OrderID)
	}
}

func TestCustomGrouping(t *testing.T) {
	t.Parallel()

	d := Decomposer{
		Logger:  quietLogger(),
		GroupBy: func(s schema.SalesTransaction) string { return "batch-" + s.CustomerID },
	}
	got := d.Orders([]schema.SalesTransaction{tx("T1", 1, 1)})
	if got[0].OrderID != "batch-001" {
		t.Errorf("order_id = %q, want batch-001", got[0].OrderID)
	}
}
