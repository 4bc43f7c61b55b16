package table

import (
	"fmt"
	"testing"

	"merchhold/domain/schema"
)

func holdTable(name string, ids ...string) *Table {
	t := NewTable(name, []string{"MID", "Merchant Name", "Status"})
	for i, id := range ids {
		rec := NewRecord()
		rec.Set("MID", Text(id))
		rec.Set("Merchant Name", Text(fmt.Sprintf("Shop %d", i)))
		rec.Set("Status", Text("On Hold"))
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func newTestIndex(tables ...*Table) *Index {
	return NewIndex(schema.NewResolver(schema.NewAliasTable()), tables, nil)
}

// TestSearchPredicate tests that only eligible tables are scanned
func TestSearchPredicate(t *testing.T) {
	idx := newTestIndex(
		holdTable("Hold_Jan.xlsx", "M100"),
		holdTable("RM_Master.xlsx", "M100"),
	)

	matches := idx.Search("M100", schema.FieldIdentifier, NameContains("hold"), 0)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	for _, m := range matches {
		if m.SourceTable == "RM_Master.xlsx" {
			t.Errorf("match sourced from ineligible table %s", m.SourceTable)
		}
	}
}

// TestSearchCap tests that scanning stops at the result cap, starving
// later tables
func TestSearchCap(t *testing.T) {
	big := holdTable("Hold_Big.xlsx")
	for i := 0; i < 30; i++ {
		rec := NewRecord()
		rec.Set("MID", Text(fmt.Sprintf("M%03d", i)))
		big.Rows = append(big.Rows, rec)
	}
	idx := newTestIndex(big, holdTable("Hold_Late.xlsx", "M001"))

	matches := idx.Search("M", schema.FieldIdentifier, AllTables, 0)
	if len(matches) != DefaultResultCap {
		t.Fatalf("expected %d matches, got %d", DefaultResultCap, len(matches))
	}
	for _, m := range matches {
		if m.SourceTable == "Hold_Late.xlsx" {
			t.Error("later table should be starved once the cap is hit")
		}
	}
}

// TestSearchEmptyQuery tests that blank queries return nothing
func TestSearchEmptyQuery(t *testing.T) {
	idx := newTestIndex(holdTable("Hold.xlsx", "M100"))
	for _, q := range []string{"", "   ", "\t"} {
		if got := idx.Search(q, schema.FieldIdentifier, AllTables, 0); got != nil {
			t.Errorf("Search(%q) = %d matches, want none", q, len(got))
		}
	}
}

// TestSearchNormalizedSubstring tests case and punctuation insensitivity
func TestSearchNormalizedSubstring(t *testing.T) {
	idx := newTestIndex(holdTable("Hold.xlsx", "M-100-X"))

	matches := idx.Search("m100", schema.FieldIdentifier, AllTables, 0)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

// TestSearchDefensiveCopy tests that mutating a match leaves the source
// table untouched
func TestSearchDefensiveCopy(t *testing.T) {
	src := holdTable("Hold.xlsx", "M100")
	idx := newTestIndex(src)

	matches := idx.Search("M100", schema.FieldIdentifier, AllTables, 0)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	matches[0].Record.Set("Status", Text("Tampered"))

	if got := src.Rows[0].Value("Status").String(); got != "On Hold" {
		t.Errorf("source table mutated: Status = %q", got)
	}
}

// TestLookupByKey tests exact normalized identifier lookup
func TestLookupByKey(t *testing.T) {
	src := holdTable("Hold.xlsx", "M100", "M200")
	idx := newTestIndex(src)

	row, ok := idx.LookupByKey(src, schema.Normalize("m-200"))
	if !ok {
		t.Fatal("expected lookup to find M200")
	}
	if got := row.Value("MID").String(); got != "M200" {
		t.Errorf("got row %q, want M200", got)
	}
	if _, ok := idx.LookupByKey(src, ""); ok {
		t.Error("empty key must not match")
	}
}

// TestAppendGrowsColumns tests that new records can widen a table's
// column universe
func TestAppendGrowsColumns(t *testing.T) {
	manual := NewTable("Manual Entries", []string{"MID"})
	rec := NewRecord()
	rec.Set("MID", Text("M300"))
	rec.Set("Hold Type", Text("Chargeback"))
	manual.Append(rec)

	if len(manual.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %v", manual.Columns)
	}
	if manual.Columns[1] != "Hold Type" {
		t.Errorf("new column = %q, want Hold Type", manual.Columns[1])
	}
}
