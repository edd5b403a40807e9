package broker

import (
	"context"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/normalize"
	"github.com/ndewijer/Broker-Statement-Importer/internal/tabular"
)

// SheetSpec describes one recognised sheet of a multi-sheet statement.
type SheetSpec struct {
	Columns    []string
	Activities map[string]model.ActivityType
}

// VestedSheetSpecs are the sheets of a Vested statement that are imported.
// Any other sheet is ignored.
var VestedSheetSpecs = map[string]SheetSpec{
	"Trades": {
		Columns: []string{
			"date",
			"time_in_utc",
			"name",
			"ticker",
			"activity",
			"order_type",
			"quantity",
			"price_per_share_in_usd",
			"cash_amount_in_usd",
			"commission_charges_in_usd",
		},
		Activities: map[string]model.ActivityType{
			"Buy":  model.ActivityBuy,
			"Sell": model.ActivitySell,
		},
	},
	"Transfers": {
		Columns: []string{
			"date",
			"time_in_utc",
			"activity",
			"cash_amount_in_usd",
		},
		Activities: map[string]model.ActivityType{
			"Deposit":               model.ActivityDeposit,
			"Vested Direct Deposit": model.ActivityDeposit,
			"Deposit Reversal":      model.ActivityWithdrawal,
		},
	},
	"Income": {
		Columns: []string{
			"date",
			"time_in_utc",
			"activity",
			"ticker",
			"gross_cash_amount_in_usd",
		},
		Activities: map[string]model.ActivityType{
			"Tax":      model.ActivityTax,
			"Dividend": model.ActivityDividend,
		},
	},
}

const vestedCurrency = "USD"

// Numeric source columns in order of preference.
var (
	vestedUnitPriceColumns = []string{"price_per_share_in_usd", "cash_amount_in_usd", "gross_cash_amount_in_usd"}
	vestedAmountColumns    = []string{"cash_amount_in_usd", "gross_cash_amount_in_usd"}
)

// VestedProcessor handles Vested US-stock statements: an XLSX workbook with
// one sheet per kind of activity.
type VestedProcessor struct {
	hasher *fingerprint.Hasher
	dates  dateParser
}

// NewVestedProcessor creates a VestedProcessor hashing with h.
func NewVestedProcessor(h *fingerprint.Hasher) *VestedProcessor {
	return &VestedProcessor{
		hasher: h,
		dates:  newDateParser(h.Location(), monthFirstLayouts),
	}
}

// Broker returns the broker name Vested accounts are registered under.
func (p *VestedProcessor) Broker() string {
	return "vested"
}

// CanHandle accepts Vested XLSX statements.
func (p *VestedProcessor) CanHandle(fileName string) bool {
	return hasExtension(fileName, ".xlsx")
}

// Process maps every recognised sheet of a Vested workbook to transactions.
func (p *VestedProcessor) Process(ctx context.Context, req ProcessRequest) (model.ParsedData, error) {
	if err := ctx.Err(); err != nil {
		return model.ParsedData{}, err
	}
	if !p.CanHandle(req.File.Name) {
		return model.ParsedData{}, apperrors.NewStructuralError("Invalid file format for Vested. Only XLSX is supported")
	}

	tables, err := tabular.Read(req.File)
	if err != nil {
		return model.ParsedData{}, err
	}
	if len(tables) < 1 {
		return model.ParsedData{}, apperrors.NewStructuralError("Invalid XLSX File")
	}

	var output []model.Table
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return model.ParsedData{}, err
		}

		spec, ok := VestedSheetSpecs[table.Name]
		if !ok || len(table.RawRows) == 0 {
			continue
		}

		if missing := normalize.MissingColumns(table.Headers, spec.Columns); len(missing) > 0 {
			return model.ParsedData{}, apperrors.NewStructuralError(
				"%s sheet in Vested XLSX file is missing columns: %s", table.Name, strings.Join(missing, ", "))
		}

		rows, err := p.processSheet(table.Name, spec, normalize.Table(table))
		if err != nil {
			return model.ParsedData{}, err
		}
		hashRows(p.hasher, req.AccountID, rows)

		if len(rows) > 0 {
			output = append(output, model.Table{Name: table.Name, Headers: table.Headers, Rows: rows})
		}
	}

	return model.ParsedData{
		Name:   baseName(req.File.Name),
		Format: model.FormatXLSX,
		Tables: output,
	}, nil
}

// processSheet maps every row of a recognised sheet. Unsupported activities
// are collected over the whole sheet and reported as one error.
func (p *VestedProcessor) processSheet(sheet string, spec SheetSpec, rows []model.NormalizedRow) ([]model.Row, error) {
	var invalid []string
	seen := make(map[string]bool)
	for _, row := range rows {
		activity := strings.TrimSpace(row["activity"])
		if _, ok := spec.Activities[activity]; ok || seen[activity] {
			continue
		}
		seen[activity] = true
		invalid = append(invalid, activity)
	}
	if len(invalid) > 0 {
		return nil, apperrors.NewStructuralError(
			"Unsupported Vested %s activities: %s", sheet, strings.Join(invalid, ", "))
	}

	output := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		tx, err := p.transaction(row, spec.Activities[strings.TrimSpace(row["activity"])])
		if err != nil {
			output = append(output, model.ErrorRow("Invalid Vested %s row: %v", sheet, err))
			continue
		}
		output = append(output, model.TransactionRow(tx))
	}
	return output, nil
}

func (p *VestedProcessor) transaction(row model.NormalizedRow, activity model.ActivityType) (model.Transaction, error) {
	date, err := p.dates.Normalize(row["date"])
	if err != nil {
		return model.Transaction{}, err
	}

	quantity, err := parseOptionalNumber(row["quantity"])
	if err != nil {
		return model.Transaction{}, err
	}
	unitPrice, err := parseNumber(firstAvailable(row, vestedUnitPriceColumns))
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := parseNumber(firstAvailable(row, vestedAmountColumns))
	if err != nil {
		return model.Transaction{}, err
	}
	fee, err := parseNumber(row["commission_charges_in_usd"])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Date:         date,
		ActivityType: activity,
		Symbol:       strings.TrimSpace(row["ticker"]),
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Amount:       amount,
		Currency:     vestedCurrency,
		Fee:          fee,
	}, nil
}

// firstAvailable returns the first non-blank cell among columns, or "".
func firstAvailable(row model.NormalizedRow, columns []string) string {
	for _, col := range columns {
		if row.Has(col) {
			return row[col]
		}
	}
	return ""
}
