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

// KuveraFundSymbols are the funds resolved without a user mapping.
// User mappings in Configs take precedence.
var KuveraFundSymbols = map[string]string{
	"HDFC Flexicap Growth Direct Plan":                         "0P0000XW77.BO",
	"HDFC Liquid Growth Direct Plan":                           "0P0000XW89.BO",
	"HDFC Money Market Growth Direct Plan":                     "0P0000XW6V.BO",
	"HDFC Nifty 50 Index Growth Direct Plan":                   "0P0000XW7T.BO",
	"ICICI Prudential Gilt Growth Direct Plan":                 "0P0000XUXV.BO",
	"ICICI Prudential Liquid Growth Direct Plan":               "0P0000XUYC.BO",
	"ICICI Prudential Money Market Growth Direct Plan":         "0P0000XUYQ.BO",
	"Parag Parikh Dynamic Asset Allocation Growth Direct Plan": "0P0001SEJL.BO",
	"Parag Parikh Flexi Cap Growth Direct Plan":                "0P0000YWL1.BO",
	"SBI Gilt Growth Direct Plan":                              "0P0000XVK2.BO",
	"UTI Nifty 50 Index Growth Direct Plan":                    "0P0000XVU2.BO",
	"UTI Nifty Next 50 Index Growth Direct Plan":               "0P0001DI4I.BO",
	"Kotak Arbitrage Growth Direct Plan":                       "0P0000XV5S.BO",
	"Tata Arbitrage Growth Direct Plan":                        "0P0001F9YJ.BO",
}

// KuveraOrderActivities maps Kuvera order types to activity types.
var KuveraOrderActivities = map[string]model.ActivityType{
	"buy":  model.ActivityAddHolding,
	"sell": model.ActivityRemoveHolding,
}

// KuveraRequiredColumns are the normalized columns a Kuvera statement must carry.
var KuveraRequiredColumns = []string{
	"date",
	"order",
	"name_of_the_fund",
	"units",
	"nav",
	"amount_inr",
}

const kuveraCurrency = "INR"

// KuveraProcessor handles Kuvera mutual fund transaction exports: a single CSV ledger.
type KuveraProcessor struct {
	hasher *fingerprint.Hasher
	dates  dateParser
}

// NewKuveraProcessor creates a KuveraProcessor hashing with h.
func NewKuveraProcessor(h *fingerprint.Hasher) *KuveraProcessor {
	return &KuveraProcessor{
		hasher: h,
		dates:  newDateParser(h.Location(), dayFirstLayouts),
	}
}

// Broker returns the broker name Kuvera accounts are registered under.
func (p *KuveraProcessor) Broker() string {
	return "kuvera"
}

// CanHandle accepts Kuvera CSV exports.
func (p *KuveraProcessor) CanHandle(fileName string) bool {
	return hasExtension(fileName, ".csv")
}

// Process maps a Kuvera statement to transactions. Funds without a
// configured symbol mapping fail the whole file with a ConfigurationError.
func (p *KuveraProcessor) Process(ctx context.Context, req ProcessRequest) (model.ParsedData, error) {
	if err := ctx.Err(); err != nil {
		return model.ParsedData{}, err
	}
	if !p.CanHandle(req.File.Name) {
		return model.ParsedData{}, apperrors.NewStructuralError("Invalid file format for Kuvera. Only CSV is supported")
	}

	tables, err := tabular.Read(req.File)
	if err != nil {
		return model.ParsedData{}, err
	}
	if len(tables) < 1 {
		return model.ParsedData{}, apperrors.NewStructuralError("Invalid CSV File")
	}

	table := tables[0]
	if missing := normalize.MissingColumns(table.Headers, KuveraRequiredColumns); len(missing) > 0 {
		return model.ParsedData{}, apperrors.NewStructuralError(
			"Kuvera CSV missing required column: %s", strings.Join(missing, ", "))
	}

	rows := normalize.Table(table)
	symbols := kuveraSymbolTable(req.Configs)

	// Every unmapped fund is reported at once so configuration is fixed in one pass.
	var unmapped []string
	seen := make(map[string]bool)
	for _, row := range rows {
		name := strings.TrimSpace(row["name_of_the_fund"])
		if _, ok := symbols[strings.ToLower(name)]; ok || seen[name] {
			continue
		}
		seen[name] = true
		unmapped = append(unmapped, name)
	}
	if len(unmapped) > 0 {
		return model.ParsedData{}, &apperrors.ConfigurationError{Broker: "Kuvera", Missing: unmapped}
	}

	output := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		output = append(output, p.processRow(row, symbols))
	}
	hashRows(p.hasher, req.AccountID, output)

	return model.ParsedData{
		Name:   baseName(req.File.Name),
		Format: model.FormatCSV,
		Tables: []model.Table{{
			Name:    table.Name,
			Headers: table.Headers,
			Rows:    output,
		}},
	}, nil
}

func (p *KuveraProcessor) processRow(row model.NormalizedRow, symbols map[string]string) model.Row {
	order := strings.ToLower(strings.TrimSpace(row["order"]))
	activity, ok := KuveraOrderActivities[order]
	if !ok {
		return model.ErrorRow("Unsupported Kuvera order type: %s", order)
	}

	date, err := p.dates.Normalize(row["date"])
	if err != nil {
		return model.ErrorRow("Invalid Kuvera date: %v", err)
	}
	units, err := parseNumber(row["units"])
	if err != nil {
		return model.ErrorRow("Invalid Kuvera units: %v", err)
	}
	nav, err := parseNumber(row["nav"])
	if err != nil {
		return model.ErrorRow("Invalid Kuvera NAV: %v", err)
	}
	amount, err := parseNumber(row["amount_inr"])
	if err != nil {
		return model.ErrorRow("Invalid Kuvera amount: %v", err)
	}

	return model.TransactionRow(model.Transaction{
		Date:         date,
		ActivityType: activity,
		Symbol:       symbols[strings.ToLower(strings.TrimSpace(row["name_of_the_fund"]))],
		Quantity:     &units,
		UnitPrice:    nav,
		Amount:       amount,
		Currency:     kuveraCurrency,
		Fee:          0,
	})
}

// kuveraSymbolTable merges the built-in funds with the user mappings, keyed by
// lower-cased fund name.
func kuveraSymbolTable(configs model.Configs) map[string]string {
	symbols := make(map[string]string, len(KuveraFundSymbols)+len(configs.KuveraFunds))
	for name, symbol := range KuveraFundSymbols {
		symbols[strings.ToLower(name)] = symbol
	}
	for _, fund := range configs.Sanitize().KuveraFunds {
		symbols[strings.ToLower(fund.Name)] = fund.Symbol
	}
	return symbols
}
