package cleaner

import (
	"log"
	"math"

	"fleximart/internal/normalize"
	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// Products cleans the raw product dataset.
type Products struct {
	Logger *log.Logger
}

// Clean validates the dataset against the products contract and runs the
// chain: strip surrogate key, trim, dedup by product_id (keep first), coerce
// numerics, impute price and stock medians, canonical category, final trim.
// Medians are computed after dedup so exact duplicates cannot skew them.
func (p Products) Clean(in []records.Record) ([]schema.Product, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := checkContract(schema.Products, in); err != nil {
		return nil, err
	}

	chain := Chain{
		Field{Name: "product_id", Fn: normalize.StripKeyPrefix, Logger: logger},
		TrimAll{},
		DeDup{Keys: []string{"product_id"}},
		Coerce{Types: map[string]string{"price": "real", "stock_quantity": "int"}, Logger: logger},
		ImputeMedian{Name: "price"},
		ImputeMedian{Name: "stock_quantity"},
		Field{Name: "category", Fn: normalize.Category, Logger: logger},
		TrimAll{},
	}
	cleaned := chain.Apply(in)

	out := make([]schema.Product, 0, len(cleaned))
	for _, r := range cleaned {
		id, _ := r.String("product_id")
		name, _ := r.String("product_name")
		price, _ := r.Float("price")
		// Stock medians over an even count can land on .5; round to the
		// nearest unit for the integer column.
		stockF, _ := r.Float("stock_quantity")
		out = append(out, schema.Product{
			ProductID:     id,
			ProductName:   name,
			Category:      optString(r, "category"),
			Price:         price,
			StockQuantity: int(math.Round(stockF)),
		})
	}
	logger.Printf("clean: products done rows_in=%d rows_out=%d", len(in), len(out))
	return out, nil
}
