package broker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
)

// numberCleaner strips grouping separators and currency markers statements
// put around numbers.
var numberCleaner = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "\u20b9", "", "$", "")

// parseNumber converts a numeric cell. A blank cell is 0.
func parseNumber(s string) (float64, error) {
	clean := numberCleaner.Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, nil
	}
	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidNumber, s)
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f, nil
}

// parseOptionalNumber converts a numeric cell, returning nil for a blank cell.
func parseOptionalNumber(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	f, err := parseNumber(s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// dateParser normalizes statement dates to YYYY-MM-DD. Values carrying an
// explicit zone are converted to loc before the time of day is discarded;
// naive values keep their calendar date.
type dateParser struct {
	loc     *time.Location
	layouts []string
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	zoneAbbrevLayout,
}

const zoneAbbrevLayout = "2006-01-02 15:04:05 MST"

var isoLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02 15:04",
	"2006/01/02",
}

// dayFirstLayouts are tried for statements from brokers that print dd/mm dates.
var dayFirstLayouts = []string{
	"02/01/2006", "2/1/2006", "02-01-2006", "2-1-2006",
	"02-Jan-2006", "2-Jan-2006", "02 Jan 2006", "2 Jan 2006", "02-Jan-06",
	"Jan 2, 2006", "January 2, 2006",
}

// monthFirstLayouts are tried for statements from brokers that print mm/dd dates.
// "01-02-06" is the rendering of the default XLSX date number format.
var monthFirstLayouts = []string{
	"01-02-06", "1-2-06", "01/02/2006", "1/2/2006", "01/02/06", "1/2/06", "01-02-2006",
	"Jan 2, 2006", "January 2, 2006", "02-Jan-2006", "2 Jan 2006",
}

func newDateParser(loc *time.Location, regional []string) dateParser {
	if loc == nil {
		loc = time.UTC
	}
	layouts := append(append([]string{}, isoLayouts...), regional...)
	return dateParser{loc: loc, layouts: layouts}
}

// unknownAbbrev reports whether t carries a zone abbreviation that is neither
// UTC nor known to the parse location. time gives such zones a zero offset,
// so the value is treated as naive.
func unknownAbbrev(t time.Time) bool {
	name, offset := t.Zone()
	return offset == 0 && name != "UTC" && name != "GMT"
}

// Normalize returns the calendar date of s as YYYY-MM-DD.
func (p dateParser) Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty date", apperrors.ErrInvalidDate)
	}

	for _, layout := range zonedLayouts {
		t, err := time.ParseInLocation(layout, s, p.loc)
		if err != nil {
			continue
		}
		if layout == zoneAbbrevLayout && unknownAbbrev(t) {
			return t.Format(time.DateOnly), nil
		}
		return t.In(p.loc).Format(time.DateOnly), nil
	}

	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}

	// Raw XLSX date serials, e.g. "45321" or "45321.5".
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format(time.DateOnly), nil
		}
	}

	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, s)
}
