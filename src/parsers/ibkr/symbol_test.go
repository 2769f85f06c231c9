package ibkr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

func TestDecodeSymbolOSI(t *testing.T) {
	info := DecodeSymbol("SPY 240315C00500000")
	require.NotNil(t, info)
	assert.Equal(t, "SPY", info.Underlying)
	assert.Equal(t, models.OptionTypeCall, info.Type)
	assert.Equal(t, 500.0, info.Strike)
	assert.Equal(t, "2024-03-15", info.Expiry)
}

func TestDecodeSymbolOSIFractionalStrike(t *testing.T) {
	info := DecodeSymbol("QQQ 251219P00422500")
	require.NotNil(t, info)
	assert.Equal(t, "QQQ", info.Underlying)
	assert.Equal(t, models.OptionTypePut, info.Type)
	assert.Equal(t, 422.5, info.Strike)
	assert.Equal(t, "2025-12-19", info.Expiry)
}

func TestDecodeSymbolHumanReadable(t *testing.T) {
	tests := []struct {
		symbol     string
		underlying string
		optType    string
		strike     float64
		expiry     string
	}{
		{"DE 15JAN27 300 P", "DE", models.OptionTypePut, 300, "2027-01-15"},
		{"SPXW 27JAN26 6845 P", "SPXW", models.OptionTypePut, 6845, "2026-01-27"},
		{"AAPL 06JUN25 220 P", "AAPL", models.OptionTypePut, 220, "2025-06-06"},
		{"TSLA 20MAR26 222.5 C", "TSLA", models.OptionTypeCall, 222.5, "2026-03-20"},
		{"BRK.B 18DEC26 450 C", "BRK.B", models.OptionTypeCall, 450, "2026-12-18"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			info := DecodeSymbol(tt.symbol)
			require.NotNil(t, info)
			assert.Equal(t, tt.underlying, info.Underlying)
			assert.Equal(t, tt.optType, info.Type)
			assert.Equal(t, tt.strike, info.Strike)
			assert.Equal(t, tt.expiry, info.Expiry)
		})
	}
}

func TestDecodeSymbolCollapsesWhitespace(t *testing.T) {
	info := DecodeSymbol("  SPY   240315C00500000 ")
	require.NotNil(t, info)
	assert.Equal(t, "SPY", info.Underlying)

	info = DecodeSymbol("DE  15JAN27   300  P")
	require.NotNil(t, info)
	assert.Equal(t, "2027-01-15", info.Expiry)
}

func TestDecodeSymbolUnknownMonthDefaultsToJanuary(t *testing.T) {
	info := DecodeSymbol("DE 15XYZ27 300 P")
	require.NotNil(t, info)
	assert.Equal(t, "2027-01-15", info.Expiry)
}

func TestDecodeSymbolNoMatch(t *testing.T) {
	for _, symbol := range []string{
		"",
		"AAPL",
		"Total",
		"SPY 240315X00500000",
		"spy 240315c00500000",
		"DE 15JAN27 300",
	} {
		assert.Nil(t, DecodeSymbol(symbol), "symbol %q should not decode", symbol)
	}
}

func TestDecodeSymbolOSIRoundTrip(t *testing.T) {
	tests := []struct {
		underlying string
		callPut    string
		strike     float64
	}{
		{"SPY", "C", 500},
		{"QQQ", "P", 422.5},
		{"IWM", "C", 187.25},
		{"A", "P", 1.5},
	}

	for _, tt := range tests {
		symbol := fmt.Sprintf("%s 240315%s%08.0f", tt.underlying, tt.callPut, tt.strike*1000)
		info := DecodeSymbol(symbol)
		require.NotNil(t, info, "symbol %q", symbol)
		assert.Equal(t, tt.underlying, info.Underlying)
		assert.Equal(t, optionType(tt.callPut), info.Type)
		assert.Equal(t, tt.strike, info.Strike)
	}
}
