// Package export serializes reviewed transactions into the downloadable
// CSV feed and reads that feed back.
package export

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/normalize"
)

// Headers is the column order of the exported feed.
var Headers = []string{
	"date",
	"activityType",
	"symbol",
	"quantity",
	"unitPrice",
	"amount",
	"currency",
	"fee",
	"comment",
}

// ToCSV renders rows as CSV text with a header line. Rows without a
// transaction are written as empty lines so line numbers still match the reviewed rows. No rows at
// all renders as "".
func ToCSV(rows []model.Row) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(Headers, ","))
	for _, row := range rows {
		if row.Transaction == nil {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, transactionLine(*row.Transaction))
	}
	return strings.Join(lines, "\n")
}

func transactionLine(t model.Transaction) string {
	quantity := ""
	if t.Quantity != nil {
		quantity = formatNumber(*t.Quantity)
	}

	values := []string{
		t.Date,
		string(t.ActivityType),
		t.Symbol,
		quantity,
		formatNumber(t.UnitPrice),
		formatNumber(t.Amount),
		t.Currency,
		formatNumber(t.Fee),
		t.Comment,
	}
	for i, v := range values {
		values[i] = Escape(v)
	}
	return strings.Join(values, ",")
}

// Escape quotes a value containing a comma, quote or line break and doubles
// embedded quotes.
func Escape(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ProcessedFileName returns the suggested download name for a statement.
func ProcessedFileName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "statement"
	}
	return base + "_processed.csv"
}

// ParseCSV reads text produced by ToCSV back into rows. Each empty line
// becomes a row with neither a transaction nor an error, so ToCSV of the
// result reproduces text. Cell values are kept verbatim.
func ParseCSV(text string) ([]model.Row, error) {
	if text == "" {
		return nil, nil
	}

	records, err := splitRecords(text)
	if err != nil {
		return nil, err
	}

	headers := records[0]
	rows := make([]model.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if record == nil {
			rows = append(rows, model.Row{})
			continue
		}
		normalized := normalize.Rows(headers, [][]string{record})[0]
		tx, err := parseTransaction(normalized)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, model.TransactionRow(tx))
	}
	return rows, nil
}

// splitRecords is the inverse of Escape applied per line. Empty lines come
// back as nil records.
func splitRecords(text string) ([][]string, error) {
	var (
		records  [][]string
		record   []string
		field    strings.Builder
		inQuotes bool
		quoted   bool
	)

	endField := func() {
		record = append(record, field.String())
		field.Reset()
		quoted = false
	}
	endRecord := func() {
		if len(record) == 0 && field.Len() == 0 && !quoted {
			records = append(records, nil)
			return
		}
		endField()
		records = append(records, record)
		record = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			switch {
			case c == '"' && i+1 < len(text) && text[i+1] == '"':
				field.WriteByte('"')
				i++
			case c == '"':
				inQuotes = false
			default:
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			if field.Len() > 0 || quoted {
				return nil, fmt.Errorf("line %d: bare quote in unquoted field", len(records)+1)
			}
			inQuotes, quoted = true, true
		case ',':
			endField()
		case '\n':
			endRecord()
		default:
			field.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("line %d: unterminated quoted field", len(records)+1)
	}
	endRecord()

	if records[0] == nil {
		return nil, errors.New("missing header line")
	}
	return records, nil
}

func parseTransaction(row model.NormalizedRow) (model.Transaction, error) {
	cells := make(map[string]string, len(Headers))
	for _, h := range Headers {
		v, err := row.Lookup(normalize.Key(h))
		if err != nil {
			return model.Transaction{}, err
		}
		cells[h] = v
	}

	tx := model.Transaction{
		Date:         cells["date"],
		ActivityType: model.ActivityType(cells["activityType"]),
		Symbol:       cells["symbol"],
		Currency:     cells["currency"],
		Comment:      cells["comment"],
	}

	if q := cells["quantity"]; q != "" {
		v, err := parseFloat(q)
		if err != nil {
			return model.Transaction{}, err
		}
		tx.Quantity = &v
	}

	var err error
	if tx.UnitPrice, err = parseFloat(cells["unitPrice"]); err != nil {
		return model.Transaction{}, err
	}
	if tx.Amount, err = parseFloat(cells["amount"]); err != nil {
		return model.Transaction{}, err
	}
	if tx.Fee, err = parseFloat(cells["fee"]); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidNumber, s)
	}
	return v, nil
}

// Saver hands the serialized feed to the user under a suggested file name.
type Saver interface {
	Save(content string, suggestedFilename string) error
}

// HTTPSaver writes the feed as a file download.
type HTTPSaver struct {
	W http.ResponseWriter
}

// Save writes content as a CSV attachment.
func (s HTTPSaver) Save(content string, suggestedFilename string) error {
	s.W.Header().Set("Content-Type", "text/csv; charset=utf-8")
	s.W.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": suggestedFilename}))
	s.W.WriteHeader(http.StatusOK)
	_, err := s.W.Write([]byte(content))
	return err
}
