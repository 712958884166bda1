package cleaner

import (
	"log"

	"fleximart/internal/normalize"
	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// Sales cleans the raw sales dataset into the canonical transaction set the
// decomposer consumes.
type Sales struct {
	Logger *log.Logger
}

// Clean validates the dataset against the sales contract and runs the chain:
// strip surrogate keys on all three ids, trim, dedup by transaction_id (keep
// first), drop rows missing customer_id or product_id (orphan guard), coerce
// numerics, normalize transaction_date.
func (s Sales) Clean(in []records.Record) ([]schema.SalesTransaction, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := checkContract(schema.Sales, in); err != nil {
		return nil, err
	}

	chain := Chain{
		Field{Name: "transaction_id", Fn: normalize.StripKeyPrefix, Logger: logger},
		Field{Name: "customer_id", Fn: normalize.StripKeyPrefix, Logger: logger},
		Field{Name: "product_id", Fn: normalize.StripKeyPrefix, Logger: logger},
		TrimAll{},
		DeDup{Keys: []string{"transaction_id"}},
		Require{Fields: []string{"customer_id", "product_id"}},
		Coerce{Types: map[string]string{"quantity": "int", "unit_price": "real"}, Logger: logger},
		Field{Name: "transaction_date", Fn: normalize.Date, Logger: logger},
	}
	cleaned := chain.Apply(in)

	out := make([]schema.SalesTransaction, 0, len(cleaned))
	for _, r := range cleaned {
		txID, _ := r.String("transaction_id")
		custID, _ := r.String("customer_id")
		prodID, _ := r.String("product_id")
		qty, ok := r.Int("quantity")
		if !ok {
			logger.Printf("clean: sales tx=%s: missing quantity, using 0", txID)
		}
		price, ok := r.Float("unit_price")
		if !ok {
			logger.Printf("clean: sales tx=%s: missing unit_price, using 0", txID)
		}
		out = append(out, schema.SalesTransaction{
			TransactionID:   txID,
			CustomerID:      custID,
			ProductID:       prodID,
			Quantity:        qty,
			UnitPrice:       price,
			TransactionDate: optString(r, "transaction_date"),
			Status:          optString(r, "status"),
		})
	}
	logger.Printf("clean: sales done rows_in=%d rows_out=%d", len(in), len(out))
	return out, nil
}
