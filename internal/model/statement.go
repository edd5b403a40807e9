package model

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
)

// File is a user-selected statement file. The extension of Name decides how
// the content is decoded.
type File struct {
	Name string
	Data []byte
}

// FileFormat is the decoded container format of a statement.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
)

// RawTable is a single sheet (or the single CSV table) as decoded from the file.
// Cells hold the textual cell value; an empty cell is "".
type RawTable struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	RawRows [][]string `json:"rawRows"`
}

// NormalizedRow maps canonical column keys to the raw cell value of one data row.
type NormalizedRow map[string]string

// Lookup returns the cell stored under key, or ErrMissingColumn when the row
// does not carry the column at all.
func (r NormalizedRow) Lookup(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrMissingColumn, key)
	}
	return v, nil
}

// Has reports whether the row carries a non-blank value for key.
func (r NormalizedRow) Has(key string) bool {
	v, ok := r[key]
	return ok && strings.TrimSpace(v) != ""
}

// Transaction is the canonical record every broker format is mapped into.
// Quantity is nil for pure cash movements. Comment carries the dedup hash.
type Transaction struct {
	Date         string       `json:"date"`
	ActivityType ActivityType `json:"activityType"`
	Symbol       string       `json:"symbol"`
	Quantity     *float64     `json:"quantity"`
	UnitPrice    float64      `json:"unitPrice"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	Fee          float64      `json:"fee"`
	Comment      string       `json:"comment,omitempty"`
}

// Row wraps either a transaction or the reason the source row could not be
// turned into one.
type Row struct {
	Transaction *Transaction `json:"transaction,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Valid reports whether the row carries a transaction.
func (r Row) Valid() bool {
	return r.Transaction != nil && r.Error == ""
}

// TransactionRow builds a successful row.
func TransactionRow(t Transaction) Row {
	return Row{Transaction: &t}
}

// ErrorRow builds a failed row.
func ErrorRow(format string, args ...any) Row {
	return Row{Error: fmt.Sprintf(format, args...)}
}

// Table is a processed sheet.
type Table struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// ParsedData is the result of processing one statement file.
type ParsedData struct {
	Name   string     `json:"name"`
	Format FileFormat `json:"format"`
	Tables []Table    `json:"tables"`
	Error  string     `json:"error,omitempty"`
}

// AllRows flattens the rows of every table in table order.
func (p ParsedData) AllRows() []Row {
	var rows []Row
	for _, t := range p.Tables {
		rows = append(rows, t.Rows...)
	}
	return rows
}

// Transactions returns every valid transaction in table order.
func (p ParsedData) Transactions() []Transaction {
	var txs []Transaction
	for _, row := range p.AllRows() {
		if row.Valid() {
			txs = append(txs, *row.Transaction)
		}
	}
	return txs
}
