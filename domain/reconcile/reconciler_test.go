package reconcile

import (
	"testing"

	"merchhold/domain/schema"
	"merchhold/domain/table"
)

func buildIndex(tables ...*table.Table) *table.Index {
	return table.NewIndex(schema.NewResolver(schema.NewAliasTable()), tables, nil)
}

// TestReconcileMergesSecondaryTables tests that a field present only in
// another loaded table still populates the result
func TestReconcileMergesSecondaryTables(t *testing.T) {
	hold := table.NewTable("Hold_Jan.xlsx", []string{"MID", "Merchant Name", "Hold Amount"})
	primary := table.NewRecord()
	primary.Set("MID", table.Text("M100"))
	primary.Set("Merchant Name", table.Text("Acme Traders"))
	primary.Set("Hold Amount", table.Text("1200.5"))
	hold.Rows = append(hold.Rows, primary)

	rm := table.NewTable("RM_Master.xlsx", []string{"Merchant ID", "RM Name", "Team Lead"})
	rmRow := table.NewRecord()
	rmRow.Set("Merchant ID", table.Text("m-100"))
	rmRow.Set("RM Name", table.Text("Dana Cruz"))
	rmRow.Set("Team Lead", table.Text("Pat Lim"))
	rm.Rows = append(rm.Rows, rmRow)

	idx := buildIndex(hold, rm)
	result := NewReconciler(idx).Reconcile(primary, "Hold_Jan.xlsx", nil)

	if got := result[schema.FieldName]; got != "Acme Traders" {
		t.Errorf("name = %q, want Acme Traders", got)
	}
	if got := result[schema.FieldHoldAmount]; got != "1,200.50" {
		t.Errorf("hold-amount = %q, want 1,200.50", got)
	}
	if got := result[schema.FieldRelationshipManager]; got != "Dana Cruz" {
		t.Errorf("relationship-manager = %q, want Dana Cruz", got)
	}
	if got := result[schema.FieldTeamLead]; got != "Pat Lim" {
		t.Errorf("team-lead = %q, want Pat Lim", got)
	}
	if _, ok := result[schema.FieldReleaseDate]; ok {
		t.Error("release-date has no source anywhere and must be absent")
	}
}

// TestReconcilePrimaryWins tests priority order when tables disagree
func TestReconcilePrimaryWins(t *testing.T) {
	hold := table.NewTable("Hold.xlsx", []string{"MID", "Status"})
	primary := table.NewRecord()
	primary.Set("MID", table.Text("M100"))
	primary.Set("Status", table.Text("On Hold"))
	hold.Rows = append(hold.Rows, primary)

	other := table.NewTable("Other.xlsx", []string{"MID", "Status"})
	row := table.NewRecord()
	row.Set("MID", table.Text("M100"))
	row.Set("Status", table.Text("Released"))
	other.Rows = append(other.Rows, row)

	idx := buildIndex(hold, other)
	result := NewReconciler(idx).Reconcile(primary, "Hold.xlsx", nil)

	if got := result[schema.FieldStatus]; got != "On Hold" {
		t.Errorf("status = %q, want the primary table's On Hold", got)
	}
}

// TestReconcileDefaultsFillOnlyEmpty tests that profile defaults never
// override a sourced value
func TestReconcileDefaultsFillOnlyEmpty(t *testing.T) {
	hold := table.NewTable("Hold.xlsx", []string{"MID", "Held By"})
	primary := table.NewRecord()
	primary.Set("MID", table.Text("M100"))
	primary.Set("Held By", table.Text("Riley"))
	hold.Rows = append(hold.Rows, primary)

	idx := buildIndex(hold)
	defaults := map[schema.Field]string{
		schema.FieldHeldBy:  "Operations Desk",
		schema.FieldChannel: "Direct",
	}
	result := NewReconciler(idx).Reconcile(primary, "Hold.xlsx", defaults)

	if got := result[schema.FieldHeldBy]; got != "Riley" {
		t.Errorf("held-by = %q, want sourced Riley", got)
	}
	if got := result[schema.FieldChannel]; got != "Direct" {
		t.Errorf("channel = %q, want default Direct", got)
	}
}

// TestReconcileOneRowPerSecondaryTable tests that only the first match
// per table corroborates
func TestReconcileOneRowPerSecondaryTable(t *testing.T) {
	hold := table.NewTable("Hold.xlsx", []string{"MID"})
	primary := table.NewRecord()
	primary.Set("MID", table.Text("M100"))
	hold.Rows = append(hold.Rows, primary)

	other := table.NewTable("Other.xlsx", []string{"MID", "Remarks"})
	first := table.NewRecord()
	first.Set("MID", table.Text("M100"))
	first.Set("Remarks", table.Text("first note"))
	second := table.NewRecord()
	second.Set("MID", table.Text("M100"))
	second.Set("Remarks", table.Text("second note"))
	other.Rows = append(other.Rows, first, second)

	idx := buildIndex(hold, other)
	result := NewReconciler(idx).Reconcile(primary, "Hold.xlsx", nil)

	if got := result[schema.FieldRemarks]; got != "first note" {
		t.Errorf("remarks = %q, want first note", got)
	}
}
