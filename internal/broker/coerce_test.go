package broker

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"", 0},
		{"  ", 0},
		{"42", 42},
		{"1,234.50", 1234.5},
		{"$ 12.25", 12.25},
		{"₹1,000", 1000},
		{"(5.5)", -5.5},
		{"-3.75", -3.75},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseNumber(tt.input)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := parseNumber("12abc")
		if !errors.Is(err, apperrors.ErrInvalidNumber) {
			t.Errorf("Expected ErrInvalidNumber, got %v", err)
		}
	})
}

func TestParseOptionalNumber(t *testing.T) {
	got, err := parseOptionalNumber(" ")
	if err != nil || got != nil {
		t.Errorf("Expected nil, nil; got %v, %v", got, err)
	}

	got, err = parseOptionalNumber("0")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got == nil || *got != 0 {
		t.Errorf("Expected pointer to 0, got %v", got)
	}
}

func TestDateParser_Normalize(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("Timezone data unavailable: %v", err)
	}

	dayFirst := newDateParser(ist, dayFirstLayouts)
	monthFirst := newDateParser(ist, monthFirstLayouts)

	tests := []struct {
		name     string
		parser   dateParser
		input    string
		expected string
	}{
		{"iso date", dayFirst, "2024-01-15", "2024-01-15"},
		{"iso datetime keeps calendar date", dayFirst, "2024-01-15 23:59:00", "2024-01-15"},
		{"zoned value converted to location", dayFirst, "2024-01-15T20:00:00Z", "2024-01-16"},
		{"abbreviation of the location", dayFirst, "2024-01-15 23:00:00 IST", "2024-01-15"},
		{"utc abbreviation converted", dayFirst, "2024-01-15 23:00:00 UTC", "2024-01-16"},
		{"unknown abbreviation keeps calendar date", dayFirst, "2024-01-15 23:00:00 PDT", "2024-01-15"},
		{"offset zero converted", dayFirst, "2024-01-15 23:00:00 +0000", "2024-01-16"},
		{"day first slash", dayFirst, "05/03/2024", "2024-03-05"},
		{"day first month name", dayFirst, "5-Mar-2024", "2024-03-05"},
		{"month first slash", monthFirst, "03/05/2024", "2024-03-05"},
		{"month first xlsx default", monthFirst, "03-05-24", "2024-03-05"},
		{"xlsx serial", monthFirst, "45356", "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parser.Normalize(tt.input)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}

	for _, input := range []string{"", "yesterday", "31/31/2024"} {
		t.Run("invalid "+input, func(t *testing.T) {
			if _, err := dayFirst.Normalize(input); !errors.Is(err, apperrors.ErrInvalidDate) {
				t.Errorf("Expected ErrInvalidDate, got %v", err)
			}
		})
	}
}
