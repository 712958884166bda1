package cleaner

import "fleximart/pkg/records"

// Transformer is one step of a cleaning pipeline. Implementations may mutate
// records in place and may shrink the slice (dedup, filters).
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers. Order matters: deduplication must
// run before imputation so exact duplicates cannot skew medians.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	if len(c) == 0 {
		return in
	}

	out := in
	for _, t := range c {
		if t == nil {
			continue
		}
		out = t.Apply(out)
	}
	return out
}
