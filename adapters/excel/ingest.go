package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"merchhold/domain/schema"
	"merchhold/domain/table"
	"merchhold/internal"
)

// headerScanDepth bounds how far down a sheet the ingester looks for a
// header row before falling back to the first row.
const headerScanDepth = 20

// Ingester turns raw spreadsheet bytes into in-memory tables. Header
// detection shares the normalizer and alias vocabulary with the column
// resolver so the two never disagree about what a header is.
type Ingester struct {
	aliases *schema.AliasTable
	log     *internal.Logger
}

// NewIngester creates an ingester over the given alias vocabulary.
func NewIngester(aliases *schema.AliasTable) *Ingester {
	return &Ingester{aliases: aliases, log: internal.DefaultLogger}
}

// IngestBytes parses a workbook or CSV buffer into tables, one per
// non-empty sheet. The table name is the source name, suffixed with the
// sheet name when the workbook has more than one populated sheet.
func (g *Ingester) IngestBytes(sourceName string, data []byte) ([]*table.Table, error) {
	if strings.EqualFold(filepath.Ext(sourceName), ".csv") {
		t, err := g.ingestCSV(sourceName, data)
		if err != nil {
			return nil, err
		}
		return []*table.Table{t}, nil
	}

	wb, err := OpenWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.SheetNames()
	var tables []*table.Table
	for _, sheet := range sheets {
		rows, err := wb.Rows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		name := sourceName
		if len(sheets) > 1 {
			name = fmt.Sprintf("%s - %s", sourceName, sheet)
		}
		t := g.buildTable(name, rows)
		if t != nil {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no populated sheets in %s", sourceName)
	}
	return tables, nil
}

// IngestFile loads a single spreadsheet file.
func (g *Ingester) IngestFile(path string) ([]*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return g.IngestBytes(filepath.Base(path), data)
}

// IngestFiles loads several spreadsheet files concurrently and returns
// the tables in the order the paths were given.
func (g *Ingester) IngestFiles(paths []string) ([]*table.Table, error) {
	perFile := make([][]*table.Table, len(paths))
	var mu sync.Mutex

	var eg errgroup.Group
	eg.SetLimit(4)
	for i, path := range paths {
		eg.Go(func() error {
			tables, err := g.IngestFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			perFile[i] = tables
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []*table.Table
	for _, tables := range perFile {
		all = append(all, tables...)
	}
	return all, nil
}

func (g *Ingester) ingestCSV(sourceName string, data []byte) (*table.Table, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", sourceName, err)
	}
	t := g.buildTable(sourceName, rows)
	if t == nil {
		return nil, fmt.Errorf("no rows in %s", sourceName)
	}
	return t, nil
}

// buildTable locates the header row, then folds the remaining rows into
// records keyed by the trimmed header names.
func (g *Ingester) buildTable(name string, rows [][]string) *table.Table {
	headerIdx := g.detectHeaderRow(rows)
	if headerIdx >= len(rows) {
		return nil
	}

	header := rows[headerIdx]
	columns := make([]string, 0, len(header))
	for _, h := range header {
		columns = append(columns, strings.TrimSpace(h))
	}

	t := table.NewTable(name, columns)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rec := table.NewRecord()
		empty := true
		for j, cell := range row {
			if j >= len(columns) || columns[j] == "" {
				continue
			}
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			rec.Set(columns[j], cellValue(trimmed))
			empty = false
		}
		if !empty {
			t.Rows = append(t.Rows, rec)
		}
	}

	g.log.Debug("[Ingester] %s: header at row %d, %d columns, %d rows",
		name, headerIdx+1, len(t.Columns), t.RowCount())
	return t
}

// detectHeaderRow scans the first rows for one whose cells hit the
// known alias vocabulary. Sheets exported with title banners above the
// real header are common, so row zero is only a fallback.
func (g *Ingester) detectHeaderRow(rows [][]string) int {
	depth := len(rows)
	if depth > headerScanDepth {
		depth = headerScanDepth
	}
	for i := 0; i < depth; i++ {
		for _, cell := range rows[i] {
			if _, ok := g.aliases.FieldFor(schema.Normalize(cell)); ok {
				return i
			}
		}
	}
	return 0
}

// cellValue maps a raw cell string onto the closed scalar value type.
// Numeric strings become numbers so serial dates and amounts keep their
// numeric identity through the pipeline.
func cellValue(s string) table.Value {
	// Leading zeros mark an identifier-like code, not a quantity.
	if len(s) > 1 && s[0] == '0' && !strings.Contains(s, ".") {
		return table.Text(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return table.Number(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return table.Bool(true)
	case "false":
		return table.Bool(false)
	}
	return table.Text(s)
}
