package csv

import (
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"fleximart/pkg/records"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestParseHeaderNormalization(t *testing.T) {
	t.Parallel()

	in := "\uFEFFCustomer ID,First Name\nC001,Asha\n"
	p := NewParser(Options{HasHeader: true, TrimSpace: true, Logger: quietLogger()})
	got, skipped, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	want := []records.Record{{"customer_id": "C001", "first_name": "Asha"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parsed = %#v, want %#v", got, want)
	}
}

func TestParseHeaderMap(t *testing.T) {
	t.Parallel()

	p := NewParser(Options{
		HasHeader: true,
		HeaderMap: map[string]string{"Cust": "customer_id"},
		Logger:    quietLogger(),
	})
	got, _, err := p.Parse(strings.NewReader("Cust\nC001\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v := got[0]["customer_id"]; v != "C001" {
		t.Errorf("customer_id = %v, want C001", v)
	}
}

func TestParseEmptyCellBecomesNil(t *testing.T) {
	t.Parallel()

	p := NewParser(Options{HasHeader: true, TrimSpace: true, Logger: quietLogger()})
	got, _, err := p.Parse(strings.NewReader("a,b\n1,\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got[0]["b"] != nil {
		t.Errorf("empty cell = %v, want nil", got[0]["b"])
	}
	if got[0]["a"] != "1" {
		t.Errorf("cell a = %v, want 1", got[0]["a"])
	}
}

func TestParseSkipsWrongWidthRows(t *testing.T) {
	t.Parallel()

	in := "a,b\n1,2\n1,2,3\n4,5\n"
	p := NewParser(Options{HasHeader: true, Logger: quietLogger()})
	got, skipped, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("rows = %d, want 2", len(got))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	p := NewParser(Options{HasHeader: true, Logger: quietLogger()})
	got, skipped, err := p.Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || skipped != 0 {
		t.Errorf("got %d rows, %d skipped from empty input", len(got), skipped)
	}
}

func TestParseNoHeaderSynthesizesColumns(t *testing.T) {
	t.Parallel()

	p := NewParser(Options{ExpectedFields: 2, Logger: quietLogger()})
	got, _, err := p.Parse(strings.NewReader("x,y\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []records.Record{{"col_0": "x", "col_1": "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parsed = %#v, want %#v", got, want)
	}
}
