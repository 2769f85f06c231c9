package ibkr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

const sampleStatement = `Statement,Header,Field Name,Field Value
Statement,Data,BrokerName,Interactive Brokers
Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Quantity,T. Price,Proceeds,Comm/Fee
Trades,Data,Order,Equity and Index Options,USD,SPY 240315C00500000,"2024-03-01, 09:30:00",-1,2.00,200,-1.05
Trades,Data,Order,Equity and Index Options,USD,SPY 240315C00505000,"2024-03-01, 09:30:00",1,0.50,-50,-1.05
Trades,Data,Order,Stocks,USD,AAPL,"2024-03-01, 09:31:00",10,170,-1700,-1
Trades,Data,SubTotal,,USD,,,0,,,
Trades,Data,Total,,,,,,,,
Fees,Header,Subtitle,Currency,Date,Description,Amount
Fees,Data,Other Fees,USD,2024-03-05,Market data,-4.5
`

func TestParseSampleStatement(t *testing.T) {
	parser := NewParser()

	trades, err := parser.Parse(strings.NewReader(sampleStatement))
	require.NoError(t, err)
	require.Len(t, trades, 2)

	sold := trades[0]
	assert.Equal(t, "2024-03-01", sold.Date)
	assert.Equal(t, "SPY 240315C00500000", sold.Symbol)
	assert.Equal(t, "SPY", sold.Underlying)
	assert.Equal(t, -1.0, sold.Quantity)
	assert.Equal(t, 2.0, sold.Price)
	assert.Equal(t, 1.05, sold.Commission)
	assert.Equal(t, models.OptionTypeCall, sold.Type)
	assert.Equal(t, 500.0, sold.Strike)
	assert.Equal(t, "2024-03-15", sold.Expiry)
	assert.Equal(t, models.ActionSell, sold.Action)
	assert.Equal(t, 200.0, sold.Proceeds)

	bought := trades[1]
	assert.Equal(t, 505.0, bought.Strike)
	assert.Equal(t, models.ActionBuy, bought.Action)
	assert.Equal(t, -50.0, bought.Proceeds)
}

func TestExtractTradesReappliesLatestHeader(t *testing.T) {
	parser := NewParser()

	// Second header row reorders the columns; the data row that follows
	// must be mapped against the new positions.
	rows := [][]string{
		{"Trades", "Header", "DataDiscriminator", "Asset Category", "Currency", "Symbol", "Date/Time", "Quantity", "T. Price", "Proceeds", "Comm/Fee"},
		{"Trades", "Data", "Order", "Equity and Index Options", "USD", "SPY 240315C00500000", "2024-03-01, 09:30:00", "-1", "2.00", "200", "-1.05"},
		{"Trades", "Header", "DataDiscriminator", "Asset Category", "Symbol", "Quantity", "Date/Time", "Proceeds", "Comm/Fee"},
		{"Trades", "Data", "Order", "Equity and Index Options", "DE 15JAN27 300 P", "1", "2024-03-02, 10:00:00", "-450", "-1.10"},
	}

	trades := parser.ExtractTrades(rows)
	require.Len(t, trades, 2)
	assert.Equal(t, "SPY", trades[0].Underlying)
	assert.Equal(t, "DE", trades[1].Underlying)
	assert.Equal(t, "2027-01-15", trades[1].Expiry)
	assert.Equal(t, -450.0, trades[1].Proceeds)
}

func TestExtractTradesSkipsNonOptionAndMalformedRows(t *testing.T) {
	parser := NewParser()

	header := []string{"Trades", "Header", "DataDiscriminator", "Asset Category", "Symbol", "Date/Time", "Quantity", "Proceeds", "Comm/Fee"}
	rows := [][]string{
		header,
		// stock row, filtered by asset category
		{"Trades", "Data", "Order", "Stocks", "AAPL", "2024-03-01, 09:30:00", "10", "-1700", "-1"},
		// summary kinds never extracted
		{"Trades", "Data", "SubTotal", "Equity and Index Options", "", "", "0", "", ""},
		{"Trades", "Data", "Total", "", "", "", "", "", ""},
		// undecodable symbol
		{"Trades", "Data", "Order", "Equity and Index Options", "NOTANOPTION", "2024-03-01, 09:30:00", "-1", "200", "-1"},
		// missing date
		{"Trades", "Data", "Order", "Equity and Index Options", "SPY 240315C00500000", "", "-1", "200", "-1"},
		// zero quantity
		{"Trades", "Data", "Order", "Equity and Index Options", "SPY 240315C00500000", "2024-03-01, 09:30:00", "0", "0", "0"},
		// rows outside the Trades section
		{"Fees", "Data", "Other Fees", "USD", "2024-03-05", "Market data", "-4.5"},
		// the one good row
		{"Trades", "Data", "Trade", "Equity and Index Options", "SPY 240315C00500000", "2024-03-01, 09:30:00", "-1", "200", "-1.05"},
	}

	trades := parser.ExtractTrades(rows)
	require.Len(t, trades, 1)
	assert.Equal(t, "SPY", trades[0].Underlying)
	assert.Equal(t, models.ActionSell, trades[0].Action)
}

func TestExtractTradesCommissionAlwaysPositive(t *testing.T) {
	parser := NewParser()

	header := []string{"Trades", "Header", "DataDiscriminator", "Asset Category", "Symbol", "Date/Time", "Quantity", "Proceeds", "Comm/Fee"}
	rows := [][]string{
		header,
		{"Trades", "Data", "Order", "Equity and Index Options", "SPY 240315C00500000", "2024-03-01, 09:30:00", "-1", "200", "-1.05"},
		{"Trades", "Data", "Order", "Equity and Index Options", "SPY 240315C00500000", "2024-03-02, 09:30:00", "1", "-50", "1.05"},
	}

	trades := parser.ExtractTrades(rows)
	require.Len(t, trades, 2)
	assert.Equal(t, 1.05, trades[0].Commission)
	assert.Equal(t, 1.05, trades[1].Commission)
}
