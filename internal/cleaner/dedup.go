package cleaner

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"fleximart/pkg/records"
)

// DeDup collapses records sharing a business key, keeping the first
// occurrence in input order. Records whose key fields are all nil pass
// through untouched; a row without identity cannot collide.
//
// Dedup runs before imputation so exact duplicates cannot skew medians, and
// before the database load so the PK constraint stays a backstop rather than
// the mechanism.
type DeDup struct {
	// Keys are the field names that form the business key, e.g.
	// ["customer_id"].
	Keys []string
}

// Apply returns the surviving records in their original relative order.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, r := range in {
		key, ok := d.keyOf(r)
		if !ok {
			out = append(out, r)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// keyOf builds the composite key. The second return is false when every key
// field is nil.
func (d DeDup) keyOf(r records.Record) (string, bool) {
	var b strings.Builder
	allNil := true
	for _, k := range d.Keys {
		if b.Len() > 0 {
			b.WriteByte('\x1f') // unlikely separator
		}
		v, ok := r[k]
		if !ok || v == nil {
			b.WriteByte('\x00')
			continue
		}
		allNil = false
		switch t := v.(type) {
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
	}
	return b.String(), !allNil
}

// RowHash fingerprints an entire record over the given column order, for
// exact-duplicate-row detection. Field order must be fixed by the caller so
// equal rows always hash equal.
func RowHash(r records.Record, columns []string) uint64 {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		v, ok := r[col]
		if !ok || v == nil {
			b.WriteByte('\x00')
			continue
		}
		switch t := v.(type) {
		case string:
			b.WriteString(t)
		default:
			b.WriteString(fmt.Sprint(t))
		}
	}
	return xxh3.HashString(b.String())
}
