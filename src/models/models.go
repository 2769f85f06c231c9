package models

// Option contract types and trade directions as they appear in the journal.
const (
	OptionTypeCall = "CALL"
	OptionTypePut  = "PUT"

	ActionBuy  = "BUY"
	ActionSell = "SELL"

	EntryTypeCredit = "Credit"
	EntryTypeDebit  = "Debit"
)

// Trade represents a single option execution line extracted from an
// activity statement. Trades are built once during ingestion and never
// mutated afterwards.
type Trade struct {
	Date       string  `json:"date"`   // execution day, YYYY-MM-DD
	Symbol     string  `json:"symbol"` // raw contract identifier from the source
	Underlying string  `json:"underlying"`
	Quantity   float64 `json:"quantity"` // signed; positive = bought, negative = sold
	Price      float64 `json:"price"`
	Commission float64 `json:"commission"` // always >= 0
	Type       string  `json:"type"`       // CALL or PUT
	Strike     float64 `json:"strike"`
	Expiry     string  `json:"expiry"` // YYYY-MM-DD
	Action     string  `json:"action"` // BUY or SELL, derived from quantity sign
	Proceeds   float64 `json:"proceeds"` // signed cash flow; positive = cash in
}

// OptionInfo holds the structured attributes decoded from an option
// contract identifier.
type OptionInfo struct {
	Underlying string
	Type       string // CALL or PUT
	Strike     float64
	Expiry     string // YYYY-MM-DD
}

// Combo is a group of realized trades on the same underlying and expiry,
// treated as one strategic position.
type Combo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`     // e.g. "SPY 500/505 CALL Spread"
	Strategy    string  `json:"strategy"` // e.g. "Call Spread", "Iron Condor"
	Underlying  string  `json:"underlying"`
	EntryType   string  `json:"entryType"` // Credit or Debit
	EntryAmount float64 `json:"entryAmount"`
	CreditDay   string  `json:"creditDay"`
	DebitDay    string  `json:"debitDay"`
	Commission  float64 `json:"commission"`
	NetRealized float64 `json:"netRealized"`
	Legs        []Trade `json:"legs"` // chronological order
	OpenDate    string  `json:"openDate"`
	CloseDate   string  `json:"closeDate"`
}

// ComboMetrics holds the aggregate P&L figures computed for one combo.
type ComboMetrics struct {
	TotalProceeds   float64 `json:"totalProceeds"`
	TotalCommission float64 `json:"totalCommission"`
	NetRealized     float64 `json:"netRealized"`
	EntryType       string  `json:"entryType"`
	EntryAmount     float64 `json:"entryAmount"`
}

// FilterPreferences is the user's saved combo-list filter record. It is
// persisted and restored verbatim; the processing pipeline itself never
// reads it.
type FilterPreferences struct {
	DateFrom   string `json:"dateFrom,omitempty"`
	DateTo     string `json:"dateTo,omitempty"`
	Underlying string `json:"underlying,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	Period     string `json:"period,omitempty"`
}
