package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"merchhold/domain/schema"
	"merchhold/domain/table"
	"merchhold/ports"
)

// AmountSummary describes the distribution of one numeric field across
// a table's rows.
type AmountSummary struct {
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// TableSummary is the flagging-flow roll-up for one table.
type TableSummary struct {
	Table      string        `json:"table"`
	Rows       int           `json:"rows"`
	HoldAmount AmountSummary `json:"holdAmount"`
	AgingDays  AmountSummary `json:"agingDays"`
}

// ReportService summarizes hold amounts and aging across the loaded
// tables for the flagging flow.
type ReportService struct {
	tables   ports.TableStore
	resolver *schema.Resolver
}

// NewReportService wires the report service.
func NewReportService(tables ports.TableStore, resolver *schema.Resolver) *ReportService {
	return &ReportService{tables: tables, resolver: resolver}
}

// Summarize rolls up every table the predicate admits.
func (s *ReportService) Summarize(ctx context.Context, eligible table.Predicate) ([]TableSummary, error) {
	all, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []TableSummary
	for _, t := range all {
		if eligible != nil && !eligible(t.Name) {
			continue
		}
		summary := TableSummary{Table: t.Name, Rows: t.RowCount()}
		summary.HoldAmount = s.summarizeField(t, schema.FieldHoldAmount)
		summary.AgingDays = s.summarizeField(t, schema.FieldAgingDays)
		out = append(out, summary)
	}
	return out, nil
}

func (s *ReportService) summarizeField(t *table.Table, field schema.Field) AmountSummary {
	col, ok := s.resolver.ResolveStrict(field, t.Columns, "")
	if !ok {
		return AmountSummary{}
	}

	var values []float64
	for _, row := range t.Rows {
		cell, ok := row.Get(col)
		if !ok || cell.IsEmpty() {
			continue
		}
		if f, ok := numericValue(cell); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return AmountSummary{}
	}

	total, _ := stats.Sum(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	p90, _ := stats.Percentile(values, 90)
	return AmountSummary{
		Count:  len(values),
		Total:  total,
		Mean:   mean,
		Median: median,
		P90:    p90,
	}
}

// numericValue extracts a float from a cell, tolerating grouped
// currency strings.
func numericValue(v table.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	raw := strings.TrimSpace(v.String())
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
