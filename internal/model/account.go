package model

import "time"

// Account is a brokerage account activities are imported into.
// Broker selects the statement processor; when empty the account name is used.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Broker    string    `json:"broker"`
	Currency  string    `json:"currency"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// BrokerName returns the name the processor registry is keyed by.
func (a Account) BrokerName() string {
	if a.Broker != "" {
		return a.Broker
	}
	return a.Name
}
