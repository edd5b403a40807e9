package testutil

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// NewCSVFile builds an in-memory CSV statement from raw lines.
//
// Example usage:
//
//	file := testutil.NewCSVFile("kuvera.csv",
//	    "Date,Order,Name of the Fund,Units,NAV,Amount (INR)",
//	    "2024-01-02,buy,HDFC Liquid,1.5,4000,6000",
//	)
func NewCSVFile(name string, lines ...string) model.File {
	return model.File{Name: name, Data: []byte(strings.Join(lines, "\n") + "\n")}
}

// WorkbookBuilder provides a fluent interface for creating XLSX statements.
//
// Example usage:
//
//	file := testutil.NewWorkbook().
//	    WithSheet("Trades", header, row1, row2).
//	    WithSheet("Unknown").
//	    File(t, "vested.xlsx")
type WorkbookBuilder struct {
	sheets []workbookSheet
}

type workbookSheet struct {
	name string
	rows [][]any
}

// NewWorkbook creates an empty WorkbookBuilder.
func NewWorkbook() *WorkbookBuilder {
	return &WorkbookBuilder{}
}

// WithSheet appends a sheet with the given rows. A sheet without rows is left empty.
func (b *WorkbookBuilder) WithSheet(name string, rows ...[]any) *WorkbookBuilder {
	b.sheets = append(b.sheets, workbookSheet{name: name, rows: rows})
	return b
}

// Build renders the workbook to XLSX bytes.
func (b *WorkbookBuilder) Build(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	keepDefault := false

	for i, sheet := range b.sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
			keepDefault = true
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			t.Fatalf("Failed to create sheet %s: %v", sheet.name, err)
		}

		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("Failed to compute cell name: %v", err)
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				t.Fatalf("Failed to write row to %s: %v", sheet.name, err)
			}
		}
	}

	if !keepDefault {
		t.Fatalf("Workbook needs at least one sheet")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

// File renders the workbook into a statement file with the given name.
func (b *WorkbookBuilder) File(t *testing.T, name string) model.File {
	t.Helper()
	return model.File{Name: name, Data: b.Build(t)}
}

// Cells converts strings to a workbook row.
func Cells(values ...string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
