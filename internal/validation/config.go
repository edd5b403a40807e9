package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
)

// ValidateUpdateConfigs validates the Kuvera fund mapping list.
// Every entry needs a name and a symbol; a fund name may appear only once
// (case-insensitive).
func ValidateUpdateConfigs(req request.UpdateConfigsRequest) error {
	errors := make(map[string]string)
	seen := make(map[string]int)

	for i, fund := range req.KuveraFunds {
		name := strings.TrimSpace(fund.Name)
		if name == "" {
			errors[fmt.Sprintf("kuveraFunds[%d].name", i)] = "name is required"
		} else if first, dup := seen[strings.ToLower(name)]; dup {
			errors[fmt.Sprintf("kuveraFunds[%d].name", i)] = fmt.Sprintf("duplicate of kuveraFunds[%d]", first)
		} else {
			seen[strings.ToLower(name)] = i
		}

		if strings.TrimSpace(fund.Symbol) == "" {
			errors[fmt.Sprintf("kuveraFunds[%d].symbol", i)] = "symbol is required"
		} else if len(fund.Symbol) > 50 {
			errors[fmt.Sprintf("kuveraFunds[%d].symbol", i)] = "symbol must be 50 characters or less"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
