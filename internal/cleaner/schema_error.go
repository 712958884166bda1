package cleaner

import (
	"fmt"
	"strings"

	"fleximart/internal/schema"
	"fleximart/pkg/records"
)

// SchemaError reports a dataset that cannot enter its cleaner at all: it is
// empty, or required columns are missing from the header. The whole entity is
// aborted rather than partially loaded; other entities are unaffected.
type SchemaError struct {
	Dataset string
	Missing []string
	Empty   bool
}

func (e *SchemaError) Error() string {
	if e.Empty {
		return fmt.Sprintf("%s: dataset is empty", e.Dataset)
	}
	return fmt.Sprintf("%s: missing columns: %s", e.Dataset, strings.Join(e.Missing, ", "))
}

// checkContract validates dataset shape against the entity contract. Column
// presence is judged by the first record; the parser guarantees uniform keys
// across a file.
func checkContract(c schema.Contract, in []records.Record) error {
	if len(in) == 0 {
		return &SchemaError{Dataset: c.Name, Empty: true}
	}
	var missing []string
	for _, f := range c.Fields {
		if !f.Required {
			continue
		}
		if _, ok := in[0][f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Dataset: c.Name, Missing: missing}
	}
	return nil
}
