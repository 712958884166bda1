// Package normalize implements the field-level normalization rules of the
// transform stage. Each normalizer is total: it maps one raw value (or nil)
// to a canonical value, or reports ErrUnparseable when the raw value cannot
// be represented. Callers decide the fallback (usually nil plus a warning);
// nothing in this package panics or aborts a row.
//
// The (value, error) split deliberately distinguishes "null by design"
// (nil in, nil out, no error) from "normalization failed" (non-nil in,
// ErrUnparseable out), so cleaners can log only the real failures.
package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnparseable reports a raw value that no rule could canonicalize.
// Callers substitute nil and continue.
var ErrUnparseable = errors.New("unparseable value")

// DefaultRegion is the phone-number region assumed for national numbers.
const DefaultRegion = "IN"

// StripKeyPrefix drops the first rune of a raw external identifier to form
// the surrogate key ("C001" -> "001"). nil propagates to nil; non-string
// values are unparseable.
func StripKeyPrefix(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: key %v", ErrUnparseable, v)
	}
	runes := []rune(s)
	if len(runes) == 0 {
		return "", nil
	}
	return string(runes[1:]), nil
}

// TrimSpaces trims leading/trailing whitespace from strings; non-string
// values pass through unchanged.
func TrimSpaces(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// Phone canonicalizes a raw phone number to "+<country_code>-<10 digits>",
// parsing it as a national number of region (DefaultRegion when empty).
// The national part keeps only its last ten digits, matching the fixed
// target column width.
func Phone(raw, region string) (string, error) {
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: phone %q: %v", ErrUnparseable, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: phone %q: invalid for region %s", ErrUnparseable, raw, region)
	}
	national := fmt.Sprintf("%d", num.GetNationalNumber())
	if len(national) > 10 {
		national = national[len(national)-10:]
	}
	return fmt.Sprintf("+%d-%s", num.GetCountryCode(), national), nil
}

var titleCaser = cases.Title(language.English)

// TitleCase renders s in Title Case (each word capitalized, remainder
// lowercased).
func TitleCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// Category maps a raw category label onto the canonical set. Matching is
// case-insensitive and substring-driven; labels outside the canonical set
// come back Title-Cased. nil propagates to nil.
func Category(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: category %v", ErrUnparseable, v)
	}
	c := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(c, "electronic"):
		return "Electronics", nil
	case strings.Contains(c, "fashion"):
		return "Fashion", nil
	case strings.Contains(c, "grocer"):
		return "Groceries", nil
	default:
		return TitleCase(c), nil
	}
}

// dateLayouts are tried in order; the first successful parse wins. The order
// resolves day/month ambiguity the same way every run.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"02/01/2006", // DD/MM/YYYY
	"01-02-2006", // MM-DD-YYYY
	"02-01-2006", // DD-MM-YYYY
	"01/02/2006", // MM/DD/YYYY
}

// fallbackLayouts back the permissive second pass, biased month-first.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006/01/02",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 January 2006",
}

// Date canonicalizes a raw date string to "2006-01-02". nil propagates to
// nil; a value no layout accepts is unparseable.
func Date(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: date %v", ErrUnparseable, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return nil, fmt.Errorf("%w: date %q", ErrUnparseable, s)
}

// Median returns the statistical median of vals: the middle element for odd
// counts, the mean of the two middle elements for even counts. The second
// return is false for an empty input.
func Median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
