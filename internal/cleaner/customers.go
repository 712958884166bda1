// Package cleaner implements the per-entity transform pipelines. Each
// cleaner is a deterministic chain over one raw dataset producing the
// canonical record set; step order follows the dependency between steps
// (surrogate keys before dedup, dedup before imputation).
package cleaner

import (
	"fmt"
	"log"

	"fleximart/internal/normalize"
	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// Customers cleans the raw customer dataset.
type Customers struct {
	Region string // phone-number region, normalize.DefaultRegion when empty
	Logger *log.Logger
}

// Clean validates the dataset against the customers contract and runs the
// chain: strip surrogate key, trim, dedup by customer_id (keep first), email
// placeholder, phone, Title-Case city, registration date, final trim. Rows
// come back in original first-occurrence order.
func (c Customers) Clean(in []records.Record) ([]schema.Customer, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := checkContract(schema.Customers, in); err != nil {
		return nil, err
	}

	region := c.Region
	if region == "" {
		region = normalize.DefaultRegion
	}

	chain := Chain{
		Field{Name: "customer_id", Fn: normalize.StripKeyPrefix, Logger: logger},
		TrimAll{},
		DeDup{Keys: []string{"customer_id"}},
		emailPlaceholder{logger: logger},
		Field{Name: "phone", Fn: phoneFn(region), Logger: logger},
		Field{Name: "city", Fn: titleFn, Logger: logger},
		Field{Name: "registration_date", Fn: normalize.Date, Logger: logger},
		TrimAll{},
	}
	cleaned := chain.Apply(in)

	out := make([]schema.Customer, 0, len(cleaned))
	for _, r := range cleaned {
		id, _ := r.String("customer_id")
		first, _ := r.String("first_name")
		last, _ := r.String("last_name")
		email, _ := r.String("email")
		out = append(out, schema.Customer{
			CustomerID:       id,
			FirstName:        first,
			LastName:         last,
			Email:            email,
			Phone:            optString(r, "phone"),
			City:             optString(r, "city"),
			RegistrationDate: optString(r, "registration_date"),
		})
	}
	logger.Printf("clean: customers done rows_in=%d rows_out=%d", len(in), len(out))
	return out, nil
}

// emailPlaceholder substitutes unknown_email_<customer_id> for missing or
// empty emails. Runs after dedup so placeholders stay unique per id.
type emailPlaceholder struct {
	logger *log.Logger
}

func (e emailPlaceholder) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		v, ok := r["email"]
		if ok && v != nil && v != "" {
			continue
		}
		id, _ := r.String("customer_id")
		r["email"] = fmt.Sprintf("unknown_email_%s", id)
	}
	return in
}

// phoneFn adapts normalize.Phone to the single-value Field signature.
func phoneFn(region string) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: phone %v", normalize.ErrUnparseable, v)
		}
		p, err := normalize.Phone(s, region)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func titleFn(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: city %v", normalize.ErrUnparseable, v)
	}
	return normalize.TitleCase(s), nil
}

func optString(r records.Record, key string) *string {
	s, ok := r.String(key)
	if !ok {
		return nil
	}
	return &s
}
