// Package parser defines the contract shared by input parsers. A parser
// turns a raw byte stream into records plus a count of soft-skipped rows.
package parser

import (
	"io"

	"fleximart/pkg/records"
)

type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
