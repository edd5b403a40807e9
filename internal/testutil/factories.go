package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithName("Vested").
//	    WithCurrency("USD").
//	    Build(t, db)
type AccountBuilder struct {
	ID       string
	Name     string
	Broker   string
	Currency string
	IsActive bool
}

// NewAccount creates an AccountBuilder with sensible defaults.
// The default broker is Kuvera.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:       MakeID(),
		Name:     MakeAccountName("Test Account"),
		Broker:   "Kuvera",
		Currency: "INR",
		IsActive: true,
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// WithBroker sets the broker name the processor is selected by.
func (b *AccountBuilder) WithBroker(broker string) *AccountBuilder {
	b.Broker = broker
	return b
}

// WithCurrency sets a custom currency.
func (b *AccountBuilder) WithCurrency(currency string) *AccountBuilder {
	b.Currency = currency
	return b
}

// Inactive marks the account as inactive.
func (b *AccountBuilder) Inactive() *AccountBuilder {
	b.IsActive = false
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	createdAt := time.Now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO account (id, name, broker, currency, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Broker, b.Currency, b.IsActive, createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:        b.ID,
		Name:      b.Name,
		Broker:    b.Broker,
		Currency:  b.Currency,
		IsActive:  b.IsActive,
		CreatedAt: createdAt,
	}
}

// Convenience functions

// CreateAccount creates an account for broker with default values.
//
// Example usage:
//
//	account := testutil.CreateAccount(t, db, "Vested")
func CreateAccount(t *testing.T, db *sql.DB, broker string) model.Account {
	t.Helper()
	return NewAccount().WithBroker(broker).Build(t, db)
}

// ActivityBuilder provides a fluent interface for creating activity history.
//
// Example usage:
//
//	activity := testutil.NewActivity(account.ID).
//	    WithType(model.ActivityBuy).
//	    WithSymbol("AAPL").
//	    WithQuantity(10).
//	    WithUnitPrice(150).
//	    Build(t, db)
type ActivityBuilder struct {
	ID           string
	AccountID    string
	Date         time.Time
	ActivityType model.ActivityType
	AssetSymbol  string
	Quantity     float64
	UnitPrice    float64
	Amount       float64
	Currency     string
	Fee          float64
	Comment      string
}

// NewActivity creates an ActivityBuilder with sensible defaults.
func NewActivity(accountID string) *ActivityBuilder {
	return &ActivityBuilder{
		ID:           MakeID(),
		AccountID:    accountID,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ActivityType: model.ActivityBuy,
		AssetSymbol:  MakeSymbol("TEST"),
		Quantity:     10,
		UnitPrice:    100,
		Amount:       1000,
		Currency:     "USD",
	}
}

// WithDate sets a custom date.
func (b *ActivityBuilder) WithDate(date time.Time) *ActivityBuilder {
	b.Date = date
	return b
}

// WithType sets the activity type.
func (b *ActivityBuilder) WithType(activityType model.ActivityType) *ActivityBuilder {
	b.ActivityType = activityType
	return b
}

// WithSymbol sets the asset symbol.
func (b *ActivityBuilder) WithSymbol(symbol string) *ActivityBuilder {
	b.AssetSymbol = symbol
	return b
}

// WithQuantity sets the quantity.
func (b *ActivityBuilder) WithQuantity(quantity float64) *ActivityBuilder {
	b.Quantity = quantity
	return b
}

// WithUnitPrice sets the unit price.
func (b *ActivityBuilder) WithUnitPrice(price float64) *ActivityBuilder {
	b.UnitPrice = price
	return b
}

// WithAmount sets the amount.
func (b *ActivityBuilder) WithAmount(amount float64) *ActivityBuilder {
	b.Amount = amount
	return b
}

// WithCurrency sets the currency.
func (b *ActivityBuilder) WithCurrency(currency string) *ActivityBuilder {
	b.Currency = currency
	return b
}

// WithFee sets the fee.
func (b *ActivityBuilder) WithFee(fee float64) *ActivityBuilder {
	b.Fee = fee
	return b
}

// WithComment sets the comment.
func (b *ActivityBuilder) WithComment(comment string) *ActivityBuilder {
	b.Comment = comment
	return b
}

// Model returns the activity without storing it.
func (b *ActivityBuilder) Model() model.Activity {
	return model.Activity{
		ID:           b.ID,
		AccountID:    b.AccountID,
		Date:         b.Date,
		ActivityType: b.ActivityType,
		AssetSymbol:  b.AssetSymbol,
		Quantity:     b.Quantity,
		UnitPrice:    b.UnitPrice,
		Amount:       b.Amount,
		Currency:     b.Currency,
		Fee:          b.Fee,
		Comment:      b.Comment,
	}
}

// Build creates the activity in the database and returns it.
func (b *ActivityBuilder) Build(t *testing.T, db *sql.DB) model.Activity {
	t.Helper()

	a := b.Model()
	a.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO activity (id, account_id, date, activity_type, asset_symbol, quantity,
			unit_price, amount, currency, fee, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		a.ID, a.AccountID, a.Date.Format(time.RFC3339), a.ActivityType, a.AssetSymbol,
		a.Quantity, a.UnitPrice, a.Amount, a.Currency, a.Fee, a.Comment,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test activity: %v", err)
	}

	return a
}
