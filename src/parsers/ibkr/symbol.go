package ibkr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

// IBKR writes option contract identifiers in three textual forms depending
// on the statement flavor:
//
//	OSI compact:    "SPY 240315C00500000"
//	Spaced:         "DE 15JAN27 300 P"
//	Contiguous:     "AAPL 06JUN25 220 P"
//
// The forms are tried in order; the first match wins.
var (
	osiSymbolRe        = regexp.MustCompile(`^([A-Z]+) (\d{6})([CP])(\d+)$`)
	spacedSymbolRe     = regexp.MustCompile(`^([A-Z.0-9]+) (\d{2})([A-Z]{3})(\d{2}) ([\d.]+) ([CP])$`)
	contiguousSymbolRe = regexp.MustCompile(`^([A-Z.0-9]+) (\d{2}[A-Z]{3}\d{2}) ([\d.]+) ([CP])$`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

var monthNumbers = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04", "MAY": "05", "JUN": "06",
	"JUL": "07", "AUG": "08", "SEP": "09", "OCT": "10", "NOV": "11", "DEC": "12",
}

// DecodeSymbol parses an option contract identifier into its structured
// attributes. It returns nil when the symbol matches none of the known
// forms; callers skip the row rather than fail the batch.
func DecodeSymbol(symbol string) *models.OptionInfo {
	cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(symbol, " "))

	if m := osiSymbolRe.FindStringSubmatch(cleaned); m != nil {
		dateStr := m[2]
		year := 2000 + mustAtoi(dateStr[0:2])
		expiry := fmt.Sprintf("%d-%s-%s", year, dateStr[2:4], dateStr[4:6])
		// OSI encodes the strike multiplied by 1000
		strike := float64(mustAtoi(m[4])) / 1000

		return &models.OptionInfo{
			Underlying: m[1],
			Type:       optionType(m[3]),
			Strike:     strike,
			Expiry:     expiry,
		}
	}

	if m := spacedSymbolRe.FindStringSubmatch(cleaned); m != nil {
		return decodeHumanReadable(m[1], m[2], m[3], m[4], m[5], m[6])
	}

	if m := contiguousSymbolRe.FindStringSubmatch(cleaned); m != nil {
		datePart := m[2]
		return decodeHumanReadable(m[1], datePart[0:2], datePart[2:5], datePart[5:7], m[3], m[4])
	}

	return nil
}

func decodeHumanReadable(underlying, day, monthName, yearShort, strikeStr, typeChar string) *models.OptionInfo {
	month, ok := monthNumbers[strings.ToUpper(monthName)]
	if !ok {
		// Statements occasionally carry month codes outside JAN-DEC.
		// Keep the row and fall back to January rather than dropping it.
		logger.L.Warn("Unrecognized month abbreviation in option symbol, defaulting to January",
			"underlying", underlying, "month", monthName)
		month = "01"
	}

	year := 2000 + mustAtoi(yearShort)
	strike, _ := strconv.ParseFloat(strikeStr, 64)

	return &models.OptionInfo{
		Underlying: underlying,
		Type:       optionType(typeChar),
		Strike:     strike,
		Expiry:     fmt.Sprintf("%d-%s-%s", year, month, day),
	}
}

func optionType(callPut string) string {
	if callPut == "C" {
		return models.OptionTypeCall
	}
	return models.OptionTypePut
}

// mustAtoi converts a string already matched as digits.
func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
