package model

import (
	"strings"
	"time"
)

// ActivityType is the canonical activity enumeration shared with the host's
// activity history.
type ActivityType string

const (
	ActivityBuy           ActivityType = "BUY"
	ActivitySell          ActivityType = "SELL"
	ActivityAddHolding    ActivityType = "ADD_HOLDING"
	ActivityRemoveHolding ActivityType = "REMOVE_HOLDING"
	ActivityDeposit       ActivityType = "DEPOSIT"
	ActivityWithdrawal    ActivityType = "WITHDRAWAL"
	ActivityDividend      ActivityType = "DIVIDEND"
	ActivityInterest      ActivityType = "INTEREST"
	ActivityTax           ActivityType = "TAX"
	ActivityFee           ActivityType = "FEE"
)

// ValidActivityTypes contains every member of the enumeration.
var ValidActivityTypes = map[ActivityType]bool{
	ActivityBuy: true, ActivitySell: true, ActivityAddHolding: true, ActivityRemoveHolding: true,
	ActivityDeposit: true, ActivityWithdrawal: true, ActivityDividend: true, ActivityInterest: true,
	ActivityTax: true, ActivityFee: true,
}

// Normalize returns the upper-cased form used for comparison and hashing.
func (a ActivityType) Normalize() ActivityType {
	return ActivityType(strings.ToUpper(strings.TrimSpace(string(a))))
}

// Activity is a record in an account's activity history.
type Activity struct {
	ID           string       `json:"id"`
	AccountID    string       `json:"accountId"`
	Date         time.Time    `json:"date"`
	ActivityType ActivityType `json:"activityType"`
	AssetSymbol  string       `json:"assetSymbol"`
	Quantity     float64      `json:"quantity"`
	UnitPrice    float64      `json:"unitPrice"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	Fee          float64      `json:"fee"`
	Comment      string       `json:"comment,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ActivityPage is a page of activity history.
type ActivityPage struct {
	Activities []Activity `json:"activities"`
	Page       int        `json:"page"`
	PerPage    int        `json:"perPage"`
	HasMore    bool       `json:"hasMore"`
}
