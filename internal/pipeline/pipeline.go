// Package pipeline orchestrates one full run: extract the three raw CSVs,
// clean each entity, decompose sales into orders and order items, write the
// derived CSVs and the quality report, and refresh the warehouse tables.
//
// Execution is strictly sequential and best-effort: a failed stage is logged
// and skipped, later stages still run with whatever survived. Only the
// per-entity schema contract aborts an entity (clean and load both), so a
// broken customers file never blocks the products refresh.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fleximart/internal/cleaner"
	"fleximart/internal/config"
	"fleximart/internal/datasource/file"
	"fleximart/internal/decompose"
	"fleximart/internal/metrics"
	csvparser "fleximart/internal/parser/csv"
	"fleximart/internal/report"
	"fleximart/internal/schema"
	"fleximart/internal/storage"
	"fleximart/pkg/records"
)

// Pipeline carries everything one run needs. Construct it with New; the zero
// value is not usable.
type Pipeline struct {
	cfg    config.Pipeline
	logger *log.Logger
	runID  string

	// openStore is a hook for tests; defaults to storage.New.
	openStore func(ctx context.Context, cfg storage.Config) (storage.Repository, error)
}

// Summary reports what a run did, for logging and exit-status decisions.
type Summary struct {
	RunID string

	Customers  int
	Products   int
	Orders     int
	OrderItems int

	// Failed lists stages that were skipped or aborted; the run still
	// completes with best-effort results.
	Failed []string
}

// New builds a Pipeline for cfg. logger must not be nil.
func New(cfg config.Pipeline, logger *log.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		runID:     uuid.NewString(),
		openStore: storage.New,
	}
}

// Run executes the whole pipeline. The returned error is non-nil only when
// nothing useful could be produced (all three extractions empty-failed);
// partial failures land in Summary.Failed instead.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: p.runID}
	p.logger.Printf("run %s: starting (data dir %s)", p.runID, p.cfg.Data.Dir)

	rawCustomers := p.extract(ctx, "customers", p.cfg.Data.Customers)
	rawProducts := p.extract(ctx, "products", p.cfg.Data.Products)
	rawSales := p.extract(ctx, "sales", p.cfg.Data.Sales)

	customers, custOK := p.cleanCustomers(rawCustomers, &sum)
	if !custOK {
		sum.Failed = append(sum.Failed, "clean customers")
	}
	products, prodOK := p.cleanProducts(rawProducts, &sum)
	if !prodOK {
		sum.Failed = append(sum.Failed, "clean products")
	}
	sales, salesOK := p.cleanSales(rawSales, &sum)
	if !salesOK {
		sum.Failed = append(sum.Failed, "clean sales")
	}

	var orders []schema.Order
	var items []schema.OrderItem
	if salesOK {
		start := time.Now()
		dec := decompose.Decomposer{Logger: p.logger}
		orders = dec.Orders(sales)
		items = dec.Items(sales)
		metrics.RecordStage(p.cfg.Job, "decompose", nil, time.Since(start))
		sum.Orders = len(orders)
		sum.OrderItems = len(items)
		p.logger.Printf("run %s: decomposed %d sales into %d orders and %d order items",
			p.runID, len(sales), len(orders), len(items))

		if err := p.writeSplitFiles(orders, items); err != nil {
			p.logger.Printf("run %s: write split files: %v", p.runID, err)
			sum.Failed = append(sum.Failed, "write split files")
		}
	}

	if err := p.writeReport(rawCustomers, rawProducts, rawSales); err != nil {
		p.logger.Printf("run %s: quality report: %v", p.runID, err)
		sum.Failed = append(sum.Failed, "quality report")
	}

	p.load(ctx, &sum, loadSet{
		customers:   customers,
		customersOK: custOK,
		products:    products,
		productsOK:  prodOK,
		orders:      orders,
		items:       items,
		salesOK:     salesOK,
	})

	if len(rawCustomers) == 0 && len(rawProducts) == 0 && len(rawSales) == 0 {
		return sum, fmt.Errorf("pipeline: no input rows in %s", p.cfg.Data.Dir)
	}
	p.logger.Printf("run %s: done (%d customers, %d products, %d orders, %d items, %d failed stages)",
		p.runID, sum.Customers, sum.Products, sum.Orders, sum.OrderItems, len(sum.Failed))
	return sum, nil
}

// extract reads one raw CSV into records. A missing file yields an empty
// dataset, not a failure; every other error is logged and also yields empty.
func (p *Pipeline) extract(ctx context.Context, name, fileName string) []records.Record {
	start := time.Now()
	path := filepath.Join(p.cfg.Data.Dir, fileName)

	src := file.NewLocal(path)
	rc, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Printf("run %s: %s: %s not found, continuing with empty dataset", p.runID, name, path)
			metrics.RecordStage(p.cfg.Job, "extract "+name, nil, time.Since(start))
			return nil
		}
		p.logger.Printf("run %s: %s: open %s: %v", p.runID, name, path, err)
		metrics.RecordStage(p.cfg.Job, "extract "+name, err, time.Since(start))
		return nil
	}
	defer rc.Close()

	parser := csvparser.NewParser(csvparser.Options{
		HasHeader: true,
		TrimSpace: true,
		Logger:    p.logger,
	})
	recs, skipped, err := parser.Parse(rc)
	metrics.RecordStage(p.cfg.Job, "extract "+name, err, time.Since(start))
	if err != nil {
		p.logger.Printf("run %s: %s: parse %s: %v", p.runID, name, path, err)
		return nil
	}
	metrics.RecordRows(name, "raw", int64(len(recs)))
	metrics.RecordRows(name, "skipped", int64(skipped))
	p.logger.Printf("run %s: %s: extracted %d rows from %s (%d skipped)", p.runID, name, len(recs), path, skipped)
	return recs
}

// cloneRecords deep-copies a dataset. The cleaners transform records in
// place and compact their input slices, so each one gets its own copy; the
// raw slices stay untouched for the quality reporter.
func cloneRecords(in []records.Record) []records.Record {
	if in == nil {
		return nil
	}
	out := make([]records.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func (p *Pipeline) cleanCustomers(raw []records.Record, sum *Summary) ([]schema.Customer, bool) {
	start := time.Now()
	out, err := cleaner.Customers{Region: p.cfg.Region, Logger: p.logger}.Clean(cloneRecords(raw))
	metrics.RecordStage(p.cfg.Job, "clean customers", err, time.Since(start))
	if err != nil {
		p.logger.Printf("run %s: clean customers: %v", p.runID, err)
		return nil, false
	}
	metrics.RecordRows("customers", "clean", int64(len(out)))
	sum.Customers = len(out)
	p.logger.Printf("run %s: cleaned %d customers", p.runID, len(out))
	return out, true
}

func (p *Pipeline) cleanProducts(raw []records.Record, sum *Summary) ([]schema.Product, bool) {
	start := time.Now()
	out, err := cleaner.Products{Logger: p.logger}.Clean(cloneRecords(raw))
	metrics.RecordStage(p.cfg.Job, "clean products", err, time.Since(start))
	if err != nil {
		p.logger.Printf("run %s: clean products: %v", p.runID, err)
		return nil, false
	}
	metrics.RecordRows("products", "clean", int64(len(out)))
	sum.Products = len(out)
	p.logger.Printf("run %s: cleaned %d products", p.runID, len(out))
	return out, true
}

func (p *Pipeline) cleanSales(raw []records.Record, sum *Summary) ([]schema.SalesTransaction, bool) {
	start := time.Now()
	out, err := cleaner.Sales{Logger: p.logger}.Clean(cloneRecords(raw))
	metrics.RecordStage(p.cfg.Job, "clean sales", err, time.Since(start))
	if err != nil {
		p.logger.Printf("run %s: clean sales: %v", p.runID, err)
		return nil, false
	}
	metrics.RecordRows("sales", "clean", int64(len(out)))
	p.logger.Printf("run %s: cleaned %d sales transactions", p.runID, len(out))
	return out, true
}

func (p *Pipeline) writeReport(rawCustomers, rawProducts, rawSales []records.Record) error {
	start := time.Now()
	stats := []report.Stats{
		report.Build(p.cfg.Data.Customers, rawCustomers, report.Reference),
		report.Build(p.cfg.Data.Products, rawProducts, report.Reference),
		report.Build(p.cfg.Data.Sales, rawSales, report.Transactional),
	}
	err := report.Write(p.outPath(p.cfg.Output.Report), stats)
	metrics.RecordStage(p.cfg.Job, "report", err, time.Since(start))
	if err == nil {
		p.logger.Printf("run %s: wrote quality report to %s", p.runID, p.outPath(p.cfg.Output.Report))
	}
	return err
}

// outPath resolves an output name against the data dir unless it is absolute.
func (p *Pipeline) outPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.cfg.Data.Dir, name)
}

// loadSet bundles what survived cleaning for the load stage.
type loadSet struct {
	customers   []schema.Customer
	customersOK bool
	products    []schema.Product
	productsOK  bool
	orders      []schema.Order
	items       []schema.OrderItem
	salesOK     bool
}

// load refreshes the warehouse. Each entity is its own transaction; a failed
// entity load is logged and the rest still run.
func (p *Pipeline) load(ctx context.Context, sum *Summary, set loadSet) {
	if p.cfg.Storage.Kind == "" {
		p.logger.Printf("run %s: no storage configured, skipping load", p.runID)
		return
	}

	start := time.Now()
	dsn, err := p.cfg.Storage.ResolveDSN()
	if err != nil {
		p.logger.Printf("run %s: load: %v", p.runID, err)
		metrics.RecordStage(p.cfg.Job, "load", err, time.Since(start))
		sum.Failed = append(sum.Failed, "load")
		return
	}
	repo, err := p.openStore(ctx, storage.Config{Kind: p.cfg.Storage.Kind, DSN: dsn})
	if err != nil {
		p.logger.Printf("run %s: load: connect %s: %v", p.runID, p.cfg.Storage.Kind, err)
		metrics.RecordStage(p.cfg.Job, "load", err, time.Since(start))
		sum.Failed = append(sum.Failed, "load")
		return
	}
	defer repo.Close()

	if p.cfg.Storage.AutoCreate {
		if err := storage.EnsureSchema(ctx, p.cfg.Storage.Kind, repo); err != nil {
			p.logger.Printf("run %s: load: %v", p.runID, err)
			metrics.RecordStage(p.cfg.Job, "load", err, time.Since(start))
			sum.Failed = append(sum.Failed, "load")
			return
		}
	}

	var loadErr error
	if set.customersOK {
		loadErr = errors.Join(loadErr, p.replace(ctx, repo, "customers",
			[]string{"order_items", "orders"}, schema.CustomerColumns, customerRows(set.customers)))
	} else {
		p.logger.Printf("run %s: skipping customers load (clean failed)", p.runID)
	}
	if set.productsOK {
		loadErr = errors.Join(loadErr, p.replace(ctx, repo, "products",
			[]string{"order_items"}, schema.ProductColumns, productRows(set.products)))
	} else {
		p.logger.Printf("run %s: skipping products load (clean failed)", p.runID)
	}
	if set.salesOK {
		loadErr = errors.Join(loadErr, p.replace(ctx, repo, "orders",
			[]string{"order_items"}, schema.OrderColumns, orderRows(set.orders)))
		loadErr = errors.Join(loadErr, p.replace(ctx, repo, "order_items",
			nil, schema.OrderItemColumns, orderItemRows(set.items)))
	} else {
		p.logger.Printf("run %s: skipping orders/order_items load (clean failed)", p.runID)
	}

	metrics.RecordStage(p.cfg.Job, "load", loadErr, time.Since(start))
	if loadErr != nil {
		sum.Failed = append(sum.Failed, "load")
	}
}

func (p *Pipeline) replace(ctx context.Context, repo storage.Repository, table string, cascade []string, columns []string, rows [][]any) error {
	n, err := repo.Replace(ctx, table, cascade, columns, rows)
	if err != nil {
		p.logger.Printf("run %s: load %s: %v", p.runID, table, err)
		return fmt.Errorf("load %s: %w", table, err)
	}
	metrics.RecordLoad(table, n)
	p.logger.Printf("run %s: loaded %d rows into %s", p.runID, n, table)
	return nil
}
