package validation

import (
	"regexp"
	"strings"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCreateAccount validates an account creation request.
//
// Required fields:
//   - name: 1 to 100 characters
//   - currency: 3-letter upper-case ISO 4217 code
//
// Optional fields:
//   - broker: 50 characters or less; when empty the account name selects the processor
func ValidateCreateAccount(req request.CreateAccountRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(req.Broker) > 50 {
		errors["broker"] = "broker must be 50 characters or less"
	}

	if strings.TrimSpace(req.Currency) == "" {
		errors["currency"] = "currency is required"
	} else if !currencyPattern.MatchString(req.Currency) {
		errors["currency"] = "currency must be a 3-letter code (USD, INR)"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
