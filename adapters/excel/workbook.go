package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps one open spreadsheet for the read-patch-rewrite cycle.
// The whole file stays in memory; serialization always writes every
// sheet back, so no partial state is ever visible to other readers.
type Workbook struct {
	f *excelize.File
}

// OpenWorkbook parses workbook bytes.
func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// NewWorkbook creates an empty workbook with a single named sheet.
func NewWorkbook(sheet string) (*Workbook, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}
	return &Workbook{f: f}, nil
}

// AddSheet creates an empty sheet at the end of the workbook.
func (w *Workbook) AddSheet(sheet string) error {
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
	}
	return nil
}

// SheetNames lists the workbook's sheets in order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Rows returns all cell values of a sheet as strings, row-major.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// WriteRows overwrites a sheet's cells starting at A1 with the given
// rows. Rows are written in place so unrelated sheets and trailing
// content outside the written range are untouched.
func (w *Workbook) WriteRows(sheet string, rows [][]string) error {
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("bad cell coordinate at row %d: %w", i+1, err)
		}
		if err := w.f.SetSheetRow(sheet, ref, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// Bytes serializes the full workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}
