package pipeline

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fleximart/internal/config"
	"fleximart/internal/storage"
)

// recordingStore captures every Replace call in order.
type recordingStore struct {
	calls []replaceCall
}

type replaceCall struct {
	table   string
	cascade []string
	columns []string
	rows    [][]any
}

func (s *recordingStore) Exec(ctx context.Context, sql string) error { return nil }

func (s *recordingStore) Replace(ctx context.Context, table string, cascade []string, columns []string, rows [][]any) (int64, error) {
	s.calls = append(s.calls, replaceCall{table, cascade, columns, rows})
	return int64(len(rows)), nil
}

func (s *recordingStore) Close() {}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(dir string) config.Pipeline {
	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Storage = config.Storage{Kind: "sqlite", DSN: "ignored-by-fake"}
	return cfg
}

func setupRun(t *testing.T, dir string) (*Pipeline, *recordingStore) {
	t.Helper()
	store := &recordingStore{}
	p := New(testConfig(dir), log.New(io.Discard, "", 0))
	p.openStore = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return store, nil
	}
	return p, store
}

const (
	rawCustomers = "customer_id,first_name,last_name,email,phone,city,registration_date\n" +
		"C001,Rahul,Sharma,rahul@example.com,9876543210,new delhi,2023-03-15\n" +
		"C001,Rahul,Sharma,rahul@example.com,9876543210,new delhi,2023-03-15\n" +
		"C002,Priya,Patel,,,mumbai,15/03/2023\n"

	rawProducts = "product_id,product_name,category,price,stock_quantity\n" +
		"P010,Phone,electronics,100,5\n" +
		"P011,Shirt,fashion,,15\n"

	rawSales = "transaction_id,customer_id,product_id,quantity,unit_price,transaction_date\n" +
		"T100,C001,P010,2,50,2023-04-01\n" +
		"T101,C002,P011,1,30,02/04/2023\n"
)

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers_raw.csv", rawCustomers)
	writeFile(t, dir, "products_raw.csv", rawProducts)
	writeFile(t, dir, "sales_raw.csv", rawSales)

	p, store := setupRun(t, dir)
	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sum.Failed) != 0 {
		t.Fatalf("failed stages: %v", sum.Failed)
	}
	if sum.Customers != 2 || sum.Products != 2 || sum.Orders != 2 || sum.OrderItems != 2 {
		t.Fatalf("summary = %+v", sum)
	}

	// Loads run parents-first, each with its own child-first cascade.
	wantTables := []string{"customers", "products", "orders", "order_items"}
	if len(store.calls) != len(wantTables) {
		t.Fatalf("replace calls = %d, want %d", len(store.calls), len(wantTables))
	}
	for i, want := range wantTables {
		if store.calls[i].table != want {
			t.Fatalf("call[%d].table = %q, want %q", i, store.calls[i].table, want)
		}
	}
	if got := store.calls[0].cascade; len(got) != 2 || got[0] != "order_items" || got[1] != "orders" {
		t.Fatalf("customers cascade = %v", got)
	}
	if got := store.calls[3].cascade; len(got) != 0 {
		t.Fatalf("order_items cascade = %v", got)
	}

	// Cleaned customer rows: surrogate prefix stripped, placeholder email.
	custRows := store.calls[0].rows
	if len(custRows) != 2 {
		t.Fatalf("customer rows = %d", len(custRows))
	}
	if custRows[0][0] != "001" {
		t.Fatalf("customer_id = %v", custRows[0][0])
	}
	if custRows[1][3] != "unknown_email_002" {
		t.Fatalf("placeholder email = %v", custRows[1][3])
	}

	// Imputed product price: median of the present values.
	prodRows := store.calls[1].rows
	if prodRows[1][3] != 100.0 {
		t.Fatalf("imputed price = %v", prodRows[1][3])
	}

	// Order totals and positional item identifiers.
	orderRows := store.calls[2].rows
	if orderRows[0][3] != 100.0 || orderRows[1][3] != 30.0 {
		t.Fatalf("order totals = %v, %v", orderRows[0][3], orderRows[1][3])
	}
	if orderRows[0][4] != "Pending" {
		t.Fatalf("order status = %v", orderRows[0][4])
	}
	itemRows := store.calls[3].rows
	if itemRows[0][0] != 1 || itemRows[1][0] != 2 {
		t.Fatalf("order_item_ids = %v, %v", itemRows[0][0], itemRows[1][0])
	}

	// Derived CSVs and report are written into the data dir.
	ordersCSV, err := os.ReadFile(filepath.Join(dir, "orders.csv"))
	if err != nil {
		t.Fatalf("orders.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(ordersCSV)), "\n")
	if len(lines) != 3 {
		t.Fatalf("orders.csv lines = %d: %q", len(lines), lines)
	}
	if lines[0] != "order_id,customer_id,order_date,total_amount,status" {
		t.Fatalf("orders.csv header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "100,001,2023-04-01,100,Pending") {
		t.Fatalf("orders.csv row = %q", lines[1])
	}

	reportBody, err := os.ReadFile(filepath.Join(dir, "data_quality_report.txt"))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{
		"Data Quality Report (ETL Summary):",
		"File: customers_raw.csv",
		"File: products_raw.csv",
		"File: sales_raw.csv",
	} {
		if !strings.Contains(string(reportBody), want) {
			t.Fatalf("report missing %q:\n%s", want, reportBody)
		}
	}
}

// TestRunReportCountsRawData pins the quality report to the raw files: a
// key-level duplicate that is not an exact-row duplicate must not count as
// removed, and the reference-kind loaded count must ignore the cleaners'
// key-based dedup. This regresses only if cleaning mutates the raw slices
// before the reporter reads them.
func TestRunReportCountsRawData(t *testing.T) {
	dir := t.TempDir()
	// Two C001 rows with different emails: same key, different content.
	writeFile(t, dir, "customers_raw.csv",
		"customer_id,first_name,last_name,email,phone,city,registration_date\n"+
			"C001,Rahul,Sharma,rahul@example.com,9876543210,new delhi,2023-03-15\n"+
			"C001,Rahul,Sharma,other@example.com,9876543210,new delhi,2023-03-15\n"+
			"C002,Priya,Patel,,,mumbai,15/03/2023\n")
	writeFile(t, dir, "products_raw.csv", rawProducts)
	writeFile(t, dir, "sales_raw.csv", rawSales)

	p, store := setupRun(t, dir)
	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The cleaner dropped the key duplicate, so only 2 rows reach the store.
	if sum.Customers != 2 || len(store.calls[0].rows) != 2 {
		t.Fatalf("cleaned customers = %d (loaded %d)", sum.Customers, len(store.calls[0].rows))
	}

	body, err := os.ReadFile(filepath.Join(dir, "data_quality_report.txt"))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	// The report counts over the raw file: no exact-row duplicates, two
	// missing cells (email and phone), all 3 rows survive reference-kind
	// cleaning.
	want := "File: customers_raw.csv\n" +
		"- Records Processed: 3\n" +
		"- Duplicates Removed: 0\n" +
		"- Missing Values Handled: 2\n" +
		"- Records Loaded Successfully: 3\n"
	if !strings.Contains(string(body), want) {
		t.Fatalf("customers section mismatch, report:\n%s", body)
	}
}

func TestRunMissingSalesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers_raw.csv", rawCustomers)
	writeFile(t, dir, "products_raw.csv", rawProducts)

	p, store := setupRun(t, dir)
	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Sales cleaning aborts on the empty dataset; customers and products
	// still load.
	found := false
	for _, f := range sum.Failed {
		if f == "clean sales" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Failed = %v, want clean sales", sum.Failed)
	}
	var tables []string
	for _, c := range store.calls {
		tables = append(tables, c.table)
	}
	if len(tables) != 2 || tables[0] != "customers" || tables[1] != "products" {
		t.Fatalf("loaded tables = %v", tables)
	}

	if _, err := os.Stat(filepath.Join(dir, "orders.csv")); !os.IsNotExist(err) {
		t.Fatalf("orders.csv should not exist, stat err = %v", err)
	}
	// The report still covers all three files, sales as an empty dataset.
	body, err := os.ReadFile(filepath.Join(dir, "data_quality_report.txt"))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(string(body), "File: sales_raw.csv") {
		t.Fatalf("report missing sales section:\n%s", body)
	}
}

func TestRunStoreConnectFailureKeepsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers_raw.csv", rawCustomers)
	writeFile(t, dir, "products_raw.csv", rawProducts)
	writeFile(t, dir, "sales_raw.csv", rawSales)

	p := New(testConfig(dir), log.New(io.Discard, "", 0))
	p.openStore = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return nil, os.ErrDeadlineExceeded
	}

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, f := range sum.Failed {
		if f == "load" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Failed = %v, want load", sum.Failed)
	}

	// File outputs are unaffected by the load failure.
	for _, name := range []string{"orders.csv", "order_items.csv", "data_quality_report.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestRunAllInputsMissing(t *testing.T) {
	p, _ := setupRun(t, t.TempDir())
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error when every input is missing")
	}
}
