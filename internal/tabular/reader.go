// Package tabular decodes statement files into raw tables. It has no
// knowledge of brokers: a CSV file yields one table, an XLSX workbook yields
// one table per sheet.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// CSVTableName is the table name given to the single table of a CSV file.
const CSVTableName = "Sheet1"

// minHeaderColumns is the minimum header width accepted for CSV files.
const minHeaderColumns = 3

// DetectFileType returns the format implied by the file extension.
func DetectFileType(name string) (model.FileFormat, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return model.FormatCSV, nil
	case ".xlsx":
		return model.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFileType, name)
	}
}

// Read decodes file into raw tables.
func Read(file model.File) ([]model.RawTable, error) {
	format, err := DetectFileType(file.Name)
	if err != nil {
		return nil, err
	}

	switch format {
	case model.FormatCSV:
		table, err := ReadCSV(bytes.NewReader(file.Data))
		if err != nil {
			return nil, err
		}
		return []model.RawTable{table}, nil
	default:
		return ReadXLSX(bytes.NewReader(file.Data))
	}
}

// ReadAll decodes several files concurrently. Results are returned in the
// order of files; the first failure cancels the batch.
func ReadAll(ctx context.Context, files []model.File) ([][]model.RawTable, error) {
	results := make([][]model.RawTable, len(files))
	g, ctx := errgroup.WithContext(ctx)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tables, err := Read(f)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			results[i] = tables
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ReadCSV decodes delimited text. Blank lines are skipped, the first
// remaining row is the header and every cell is trimmed.
func ReadCSV(r io.Reader) (model.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.RawTable{}, &apperrors.ParseError{
				Type:    apperrors.ParseErrorFile,
				Message: "failed to decode CSV file",
				Row:     len(records),
				Err:     err,
			}
		}
		record = trimCells(record)
		if isBlank(record) {
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return model.RawTable{}, &apperrors.ParseError{
			Type:    apperrors.ParseErrorFile,
			Message: "CSV file is empty",
		}
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
		headers[0] = strings.TrimSpace(headers[0])
	}
	if !validHeaders(headers) {
		return model.RawTable{}, &apperrors.ParseError{
			Type:    apperrors.ParseErrorHeader,
			Message: "Invalid CSV headers",
		}
	}

	return model.RawTable{
		Name:    CSVTableName,
		Headers: headers,
		RawRows: padRows(records[1:], len(headers)),
	}, nil
}

// ReadXLSX decodes a workbook into one table per sheet, in workbook order.
// Empty sheets yield a table with no headers and no rows.
func ReadXLSX(r io.Reader) ([]model.RawTable, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &apperrors.ParseError{
			Type:    apperrors.ParseErrorFile,
			Message: "failed to decode XLSX file",
			Err:     err,
		}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	tables := make([]model.RawTable, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, &apperrors.ParseError{
				Type:      apperrors.ParseErrorSheet,
				Message:   fmt.Sprintf("failed to read sheet %s", sheet),
				SheetName: sheet,
				Err:       err,
			}
		}

		var records [][]string
		for _, row := range rows {
			row = trimCells(row)
			if isBlank(row) {
				continue
			}
			records = append(records, row)
		}

		if len(records) == 0 {
			tables = append(tables, model.RawTable{Name: sheet, Headers: []string{}, RawRows: [][]string{}})
			continue
		}

		headers := records[0]
		tables = append(tables, model.RawTable{
			Name:    sheet,
			Headers: headers,
			RawRows: padRows(records[1:], len(headers)),
		})
	}

	return tables, nil
}

func validHeaders(headers []string) bool {
	if len(headers) < minHeaderColumns {
		return false
	}
	for _, h := range headers {
		if h == "" {
			return false
		}
	}
	return true
}

func trimCells(record []string) []string {
	out := make([]string, len(record))
	for i, c := range record {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(record []string) bool {
	for _, c := range record {
		if c != "" {
			return false
		}
	}
	return true
}

// padRows extends short rows with empty cells so every row is at least as
// wide as the header.
func padRows(rows [][]string, width int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		out[i] = row
	}
	return out
}
