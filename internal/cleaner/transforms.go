package cleaner

import (
	"errors"
	"log"
	"strconv"

	"fleximart/internal/normalize"
	"fleximart/pkg/records"
)

// TrimAll trims leading/trailing whitespace from every string field.
// Non-string values pass through unchanged.
type TrimAll struct{}

func (TrimAll) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			r[k] = normalize.TrimSpaces(v)
		}
	}
	return in
}

// Field applies one normalizer function to a single column of every record.
// A normalization failure substitutes nil and logs a warning; nil results
// without error are null by design and stay silent.
type Field struct {
	Name   string
	Fn     func(any) (any, error)
	Logger *log.Logger
}

func (f Field) Apply(in []records.Record) []records.Record {
	logger := f.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, r := range in {
		v, ok := r[f.Name]
		if !ok {
			continue
		}
		nv, err := f.Fn(v)
		if err != nil {
			if errors.Is(err, normalize.ErrUnparseable) {
				logger.Printf("clean: field %s: %v", f.Name, err)
			} else {
				logger.Printf("clean: field %s: normalize error: %v", f.Name, err)
			}
			r[f.Name] = nil
			continue
		}
		r[f.Name] = nv
	}
	return in
}

// Require removes any record missing a value for one of the specified
// fields. The sales cleaner uses it as the referential integrity guard
// against orphan transactions.
type Require struct {
	Fields []string
}

// Apply returns a filtered slice containing only records that have all
// required fields present and non-empty.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			v, exists := rec[f]
			if !exists || v == nil || v == "" {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

// Coerce converts string fields to typed values. Unconvertible values become
// nil so imputation and null accounting see them uniformly.
type Coerce struct {
	Types  map[string]string // field -> "int" | "real"
	Logger *log.Logger
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			switch typ {
			case "int":
				if i, err := strconv.Atoi(s); err == nil {
					r[field] = i
				} else if f, err := strconv.ParseFloat(s, 64); err == nil {
					r[field] = int(f)
				} else {
					logger.Printf("clean: field %s: not an integer: %q", field, s)
					r[field] = nil
				}
			case "real":
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					r[field] = f
				} else {
					logger.Printf("clean: field %s: not a number: %q", field, s)
					r[field] = nil
				}
			}
		}
	}
	return in
}

// ImputeMedian fills nil values of one numeric column with the median of the
// column's present values, computed over the batch it is applied to. Applied
// after dedup by construction of the entity chains. A column with no present
// values is left untouched; there is no median to take.
type ImputeMedian struct {
	Name string
}

func (m ImputeMedian) Apply(in []records.Record) []records.Record {
	var present []float64
	for _, r := range in {
		if f, ok := r.Float(m.Name); ok {
			present = append(present, f)
		}
	}
	med, ok := normalize.Median(present)
	if !ok {
		return in
	}
	for _, r := range in {
		if r.IsNull(m.Name) {
			r[m.Name] = med
		}
	}
	return in
}
