package model

import "time"

// ImportSummary counts what a processed statement contains after dedup.
type ImportSummary struct {
	Tables       int `json:"tables"`
	Transactions int `json:"transactions"`
	Errors       int `json:"errors"`
	Duplicates   int `json:"duplicates"`
}

// ImportResult is a reviewed statement, cached until it is exported or committed.
type ImportResult struct {
	ID        string        `json:"id"`
	AccountID string        `json:"accountId"`
	FileName  string        `json:"fileName"`
	Data      ParsedData    `json:"data"`
	Summary   ImportSummary `json:"summary"`
	CreatedAt time.Time     `json:"createdAt"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// Summarize computes the summary of data; duplicates is supplied by the dedup filter.
func Summarize(data ParsedData, duplicates int) ImportSummary {
	s := ImportSummary{Tables: len(data.Tables), Duplicates: duplicates}
	for _, row := range data.AllRows() {
		if row.Valid() {
			s.Transactions++
		} else {
			s.Errors++
		}
	}
	return s
}

// CommitResult reports how many activities were written to the history.
type CommitResult struct {
	ImportID string `json:"importId"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
}
