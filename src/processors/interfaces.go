package processors

import (
	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

// RealizationProcessor retains only the trades belonging to contract
// series whose net position ends flat.
type RealizationProcessor interface {
	Process(trades []models.Trade) []models.Trade
}

// ComboProcessor partitions realized trades into combos, classifies each
// combo's strategy and computes its P&L metrics.
type ComboProcessor interface {
	Process(trades []models.Trade) []models.Combo
}
