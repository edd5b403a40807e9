package model

import "strings"

// KuveraFund maps a Kuvera fund name to the ticker symbol used for the holding.
type KuveraFund struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Configs holds the user-maintained mapping data.
type Configs struct {
	KuveraFunds []KuveraFund `json:"kuveraFunds"`
}

// DefaultConfigs returns the empty configuration used when nothing is stored.
func DefaultConfigs() Configs {
	return Configs{KuveraFunds: []KuveraFund{}}
}

// Sanitize trims names and symbols, drops incomplete entries and keeps the
// first entry for every fund name (case-insensitive).
func (c Configs) Sanitize() Configs {
	seen := make(map[string]bool)
	funds := make([]KuveraFund, 0, len(c.KuveraFunds))
	for _, f := range c.KuveraFunds {
		name := strings.TrimSpace(f.Name)
		symbol := strings.TrimSpace(f.Symbol)
		if name == "" || symbol == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		funds = append(funds, KuveraFund{Name: name, Symbol: symbol})
	}
	return Configs{KuveraFunds: funds}
}
