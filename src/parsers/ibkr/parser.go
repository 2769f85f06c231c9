package ibkr

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/models"
	"github.com/bulentgercek/ibkr-options-journal/src/utils"
)

// IBKRParser extracts option trade executions from an IBKR Activity
// Statement CSV export.
type IBKRParser struct{}

// NewParser creates a new instance of the IBKRParser.
func NewParser() *IBKRParser {
	return &IBKRParser{}
}

// Parse tokenizes the CSV byte stream and extracts the option trades it
// contains. Only a structurally unreadable file produces an error;
// individual malformed rows are skipped.
func (p *IBKRParser) Parse(file io.Reader) ([]models.Trade, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // sections have varying widths
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ibkr parser: failed to read CSV records: %w", err)
	}

	return p.ExtractTrades(rows), nil
}

// ExtractTrades scans the already-tokenized rows of a multi-section
// activity statement and returns the option trade executions.
//
// The statement interleaves sections; each row's first two cells carry the
// section name and the row kind (Header or Data). Header rows apply to all
// subsequent data rows of their section until superseded. Extraction is
// best-effort: rows that cannot be mapped, decoded, or dated are dropped,
// never aborting the batch.
func (p *IBKRParser) ExtractTrades(rows [][]string) []models.Trade {
	var trades []models.Trade
	var currentHeaders []string

	for _, row := range rows {
		if len(row) < 3 || row[0] != "Trades" {
			continue
		}

		if row[1] == "Header" {
			currentHeaders = row
			continue
		}

		if row[1] != "Data" || (row[2] != "Order" && row[2] != "Trade") {
			continue
		}

		data := mapRowToHeaders(currentHeaders, row)

		if !strings.Contains(strings.ToLower(data["Asset Category"]), "option") {
			continue
		}

		symbol := strings.TrimSpace(data["Symbol"])
		dateStr := data["Date/Time"]
		quantity := parseFloat(data["Quantity"])
		proceeds := parseFloat(data["Proceeds"])
		price := parseFloat(data["T. Price"])
		commission := math.Abs(parseFloat(data["Comm/Fee"]))

		info := DecodeSymbol(symbol)
		if info == nil || dateStr == "" {
			logger.L.Debug("Skipping unrecognized option row", "symbol", symbol, "date", dateStr)
			continue
		}
		if quantity == 0 {
			logger.L.Debug("Skipping option row with zero quantity", "symbol", symbol)
			continue
		}

		action := models.ActionSell
		if quantity > 0 {
			action = models.ActionBuy
		}

		trades = append(trades, models.Trade{
			Date:       utils.NormalizeTradeDate(dateStr),
			Symbol:     symbol,
			Underlying: info.Underlying,
			Quantity:   quantity,
			Price:      price,
			Commission: commission,
			Type:       info.Type,
			Strike:     info.Strike,
			Expiry:     info.Expiry,
			Action:     action,
			Proceeds:   proceeds,
		})
	}

	return trades
}

// mapRowToHeaders maps positional cell values onto the named fields of the
// most recent header row.
func mapRowToHeaders(headers, row []string) map[string]string {
	data := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			data[header] = row[i]
		}
	}
	return data
}

// parseFloat converts a numeric field, defaulting to 0 rather than failing the row.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
