// Package fingerprint computes the content hash used to detect transactions
// that were already imported into an account.
//
// The generate side (Transaction) and the check side (Activity) must select
// and serialize the same fields, otherwise dedup silently breaks.
package fingerprint

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// CashSymbol is the pseudo-symbol cash-like activities are hashed under.
// It is applied regardless of the transaction currency.
const CashSymbol = "$CASH-USD"

// suffix is reserved for disambiguating otherwise identical rows.
const suffix = "#0"

const (
	offset64 uint64 = 0xcbf29ce484222325
	prime64  uint64 = 0x100000001b3
)

// cashActivityTypes are hashed under CashSymbol on the generate side.
var cashActivityTypes = map[model.ActivityType]bool{
	model.ActivityTax:        true,
	model.ActivityWithdrawal: true,
	model.ActivityDeposit:    true,
}

// amountActivityTypes carry their value in amount rather than unit price in the history.
var amountActivityTypes = map[model.ActivityType]bool{
	model.ActivityDividend:   true,
	model.ActivityWithdrawal: true,
	model.ActivityDeposit:    true,
}

// Hasher computes hashes with dates normalized in a fixed reference location.
type Hasher struct {
	loc *time.Location
}

// NewHasher creates a Hasher normalizing history dates to loc.
func NewHasher(loc *time.Location) *Hasher {
	if loc == nil {
		loc = time.UTC
	}
	return &Hasher{loc: loc}
}

// Location returns the reference location.
func (h *Hasher) Location() *time.Location {
	return h.loc
}

// Transaction hashes a freshly processed transaction for accountID.
// t.Date is expected to already be a normalized YYYY-MM-DD date.
func (h *Hasher) Transaction(t model.Transaction, accountID string) string {
	activityType := t.ActivityType.Normalize()

	symbol := t.Symbol
	if cashActivityTypes[activityType] {
		symbol = CashSymbol
	}

	unitPrice := t.UnitPrice
	if activityType == model.ActivityTax && unitPrice < 0 {
		unitPrice = -unitPrice
	}

	quantity := 0.0
	if t.Quantity != nil {
		quantity = *t.Quantity
	}

	return hashFields(
		accountID,
		strings.TrimSpace(t.Date),
		string(activityType),
		symbol,
		formatNumber(quantity),
		formatNumber(unitPrice),
		t.Currency,
		formatNumber(t.Fee),
	)
}

// Activity hashes an activity already present in the account history.
func (h *Hasher) Activity(a model.Activity) string {
	activityType := a.ActivityType.Normalize()

	unitPrice := a.UnitPrice
	if amountActivityTypes[activityType] {
		unitPrice = a.Amount
	}

	return hashFields(
		a.AccountID,
		h.Date(a.Date),
		string(activityType),
		a.AssetSymbol,
		formatNumber(a.Quantity),
		formatNumber(unitPrice),
		a.Currency,
		formatNumber(a.Fee),
	)
}

// NewActivity converts a processed transaction into the history record that
// Activity hashes back to the transaction's own hash. Cash-like types are
// stored under CashSymbol and TAX with an absolute unit price.
func (h *Hasher) NewActivity(t model.Transaction, accountID string) (model.Activity, error) {
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(t.Date), h.loc)
	if err != nil {
		return model.Activity{}, fmt.Errorf("failed to parse transaction date: %w", err)
	}

	activityType := t.ActivityType.Normalize()

	symbol := t.Symbol
	if cashActivityTypes[activityType] {
		symbol = CashSymbol
	}

	unitPrice := t.UnitPrice
	if activityType == model.ActivityTax && unitPrice < 0 {
		unitPrice = -unitPrice
	}

	quantity := 0.0
	if t.Quantity != nil {
		quantity = *t.Quantity
	}

	amount := t.Amount
	if amountActivityTypes[activityType] {
		// The check side reads the value of these types from amount.
		amount = unitPrice
	}

	return model.Activity{
		AccountID:    accountID,
		Date:         date,
		ActivityType: activityType,
		AssetSymbol:  symbol,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Amount:       amount,
		Currency:     t.Currency,
		Fee:          t.Fee,
		Comment:      t.Comment,
	}, nil
}

// Date renders the calendar date of t in the reference location.
func (h *Hasher) Date(t time.Time) string {
	return t.In(h.loc).Format(time.DateOnly)
}

func hashFields(fields ...string) string {
	return FNV1a64(strings.Join(fields, "|")) + suffix
}

// FNV1a64 hashes the UTF-16 code units of s with 64-bit FNV-1a and returns the
// lowercase hex digest without leading zeros.
func FNV1a64(s string) string {
	hash := offset64
	for _, unit := range utf16.Encode([]rune(s)) {
		hash ^= uint64(unit)
		hash *= prime64
	}
	return strconv.FormatUint(hash, 16)
}

// formatNumber renders v in its shortest decimal form ("10", "0.1", "-2.5").
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
