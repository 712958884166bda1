package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"fleximart/internal/storage"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	repo, closeFn, err := NewRepository(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(closeFn)
	if err := storage.ExecAll(ctx, &noClose{repo}, warehouseDDL); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return repo
}

// noClose adapts *Repository to storage.Repository for test bootstrap.
type noClose struct{ *Repository }

func (noClose) Close() {}

func countRows(t *testing.T, repo *Repository, table string) int {
	t.Helper()
	row := repo.db.QueryRow("SELECT COUNT(*) FROM " + sqIdent(table))
	var n int
	if err := row.Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestReplaceFullRefresh(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	cols := []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}

	n, err := repo.Replace(ctx, "customers", nil, cols, [][]any{
		{"001", "Rahul", "Sharma", "rahul@example.com", "+91-9876543210", "Mumbai", "2023-01-15"},
		{"002", "Priya", "Patel", "priya@example.com", nil, "Delhi", nil},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}

	// A second Replace must not accumulate rows from the first.
	n, err = repo.Replace(ctx, "customers", nil, cols, [][]any{
		{"003", "Amit", "Kumar", "amit@example.com", nil, "Bangalore", "2023-02-01"},
	})
	if err != nil {
		t.Fatalf("Replace again: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}
	if got := countRows(t, repo, "customers"); got != 1 {
		t.Fatalf("customers rows = %d, want 1", got)
	}
}

func TestReplaceCascadeDeletesChildrenFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	custCols := []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}
	if _, err := repo.Replace(ctx, "customers", nil, custCols, [][]any{
		{"001", "Rahul", "Sharma", "rahul@example.com", nil, "Mumbai", nil},
	}); err != nil {
		t.Fatalf("load customers: %v", err)
	}

	orderCols := []string{"order_id", "customer_id", "order_date", "total_amount", "status"}
	if _, err := repo.Replace(ctx, "orders", nil, orderCols, [][]any{
		{"T001", "001", "2023-03-01", 100.0, "Pending"},
	}); err != nil {
		t.Fatalf("load orders: %v", err)
	}

	itemCols := []string{"order_item_id", "order_id", "product_id", "quantity", "unit_price", "subtotal"}
	prodCols := []string{"product_id", "product_name", "category", "price", "stock_quantity"}
	if _, err := repo.Replace(ctx, "products", nil, prodCols, [][]any{
		{"P01", "Widget", "Electronics", 50.0, 10},
	}); err != nil {
		t.Fatalf("load products: %v", err)
	}
	if _, err := repo.Replace(ctx, "order_items", nil, itemCols, [][]any{
		{1, "T001", "P01", 2, 50.0, 100.0},
	}); err != nil {
		t.Fatalf("load order_items: %v", err)
	}

	// With foreign keys on, refreshing customers requires the dependent
	// tables to be cleared first. The cascade list makes that happen inside
	// the same transaction.
	if _, err := repo.Replace(ctx, "customers", []string{"order_items", "orders"}, custCols, [][]any{
		{"002", "Priya", "Patel", "priya@example.com", nil, "Delhi", nil},
	}); err != nil {
		t.Fatalf("cascading Replace: %v", err)
	}
	if got := countRows(t, repo, "orders"); got != 0 {
		t.Fatalf("orders rows = %d, want 0", got)
	}
	if got := countRows(t, repo, "order_items"); got != 0 {
		t.Fatalf("order_items rows = %d, want 0", got)
	}
	if got := countRows(t, repo, "customers"); got != 1 {
		t.Fatalf("customers rows = %d, want 1", got)
	}
}

func TestReplaceEmptyRows(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	cols := []string{"product_id", "product_name", "category", "price", "stock_quantity"}

	if _, err := repo.Replace(ctx, "products", nil, cols, [][]any{
		{"P01", "Widget", "Electronics", 50.0, 10},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	// Empty input still truncates: full refresh means the table mirrors the
	// current batch exactly.
	n, err := repo.Replace(ctx, "products", nil, cols, nil)
	if err != nil {
		t.Fatalf("Replace empty: %v", err)
	}
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}
	if got := countRows(t, repo, "products"); got != 0 {
		t.Fatalf("products rows = %d, want 0", got)
	}
}

func TestReplaceRowWidthMismatch(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	cols := []string{"product_id", "product_name", "category", "price", "stock_quantity"}

	_, err := repo.Replace(ctx, "products", nil, cols, [][]any{{"P01", "Widget"}})
	if err == nil {
		t.Fatal("expected row width error")
	}
	if got := countRows(t, repo, "products"); got != 0 {
		t.Fatalf("products rows after rollback = %d, want 0", got)
	}
}
