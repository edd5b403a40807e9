// Package broker turns decoded broker statements into canonical transactions.
// Every supported broker has one Processor; the Registry selects it from the
// account the statement is imported into.
package broker

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// ProcessRequest carries everything a processor needs for one statement.
// AccountID is folded into every transaction hash.
type ProcessRequest struct {
	AccountID string
	Configs   model.Configs
	File      model.File
}

// Processor interprets one broker's statement format.
//
// Process fails the whole call only on structural errors (wrong extension,
// empty file, missing required columns) and configuration errors (missing
// symbol mappings). Rows whose vocabulary is not recognised are returned as
// error rows instead.
type Processor interface {
	// Broker returns the registry key of the processor.
	Broker() string
	// CanHandle reports whether the processor accepts a file with this name.
	CanHandle(fileName string) bool
	Process(ctx context.Context, req ProcessRequest) (model.ParsedData, error)
}

// hashRows fills Comment of every transaction row with its dedup hash.
func hashRows(h *fingerprint.Hasher, accountID string, rows []model.Row) {
	for i := range rows {
		if rows[i].Transaction != nil {
			rows[i].Transaction.Comment = h.Transaction(*rows[i].Transaction, accountID)
		}
	}
}

func hasExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// baseName strips directory and extension from a file name.
func baseName(name string) string {
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
