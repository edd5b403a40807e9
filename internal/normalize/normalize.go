// Package normalize rewrites raw statement headers into canonical column keys
// so broker processors can declare required columns independent of the
// punctuation and casing used by the source statement.
package normalize

import (
	"regexp"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Key lowercases and trims s, collapses every run of non-alphanumeric
// characters to a single underscore and strips leading/trailing underscores.
//
//	Key("Amount (INR)") == "amount_inr"
func Key(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	k = nonAlphanumeric.ReplaceAllString(k, "_")
	return strings.Trim(k, "_")
}

// Headers returns the canonical key of every header, in order.
func Headers(headers []string) []string {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = Key(h)
	}
	return keys
}

// Rows zips every raw row against the normalized headers. Missing trailing
// cells become "". No row is dropped or reordered. When two headers collapse
// to the same key the later column wins.
func Rows(headers []string, rawRows [][]string) []model.NormalizedRow {
	keys := Headers(headers)
	rows := make([]model.NormalizedRow, 0, len(rawRows))
	for _, raw := range rawRows {
		row := make(model.NormalizedRow, len(keys))
		for i, key := range keys {
			if key == "" {
				continue
			}
			if i < len(raw) {
				row[key] = raw[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Table normalizes a decoded table.
func Table(t model.RawTable) []model.NormalizedRow {
	return Rows(t.Headers, t.RawRows)
}

// MissingColumns returns the required keys that are not among the
// normalized headers, in the order they were required.
func MissingColumns(headers []string, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, k := range Headers(headers) {
		present[k] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
