package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

var exportHeaders = []string{
	"Combo (Full Name)",
	"Strategy",
	"Entry Type",
	"Entry Amount ($)",
	"Open (Day)",
	"Close (Day)",
	"Commission ($)",
	"Net Realized ($)",
}

// ExportCombosCSV renders the combo list as a CSV document with a trailing
// total row, in the layout the journal has always exported.
func (s *journalServiceImpl) ExportCombosCSV(combos []models.Combo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("error writing export header: %w", err)
	}

	var totalNetRealized float64
	for _, combo := range combos {
		totalNetRealized += combo.NetRealized
		record := []string{
			combo.Name,
			combo.Strategy,
			combo.EntryType,
			formatAmount(combo.EntryAmount),
			combo.OpenDate,
			combo.CloseDate,
			formatAmount(combo.Commission),
			formatAmount(combo.NetRealized),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("error writing export row: %w", err)
		}
	}

	totalRow := []string{"", "", "", "", "", "", "Total Net Realized", formatAmount(totalNetRealized)}
	if err := writer.Write(totalRow); err != nil {
		return nil, fmt.Errorf("error writing export total row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing export: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
