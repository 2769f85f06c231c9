package processors

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

// comboKey identifies one combo group: all trades on the same underlying
// and expiry form one strategic position.
type comboKey struct {
	Underlying string
	Expiry     string
}

// legKey identifies one distinct leg within a combo.
type legKey struct {
	Strike float64
	Type   string
}

type comboProcessorImpl struct{}

// NewComboProcessor creates a new instance of ComboProcessor.
func NewComboProcessor() ComboProcessor {
	return &comboProcessorImpl{}
}

// Process groups realized trades into combos, sorts each combo's legs
// date-ascending, computes its metrics and infers the strategy label.
// Combos come out in the order their first trade appeared in the input.
func (p *comboProcessorImpl) Process(trades []models.Trade) []models.Combo {
	groups := make(map[comboKey][]models.Trade)
	var order []comboKey

	for _, trade := range trades {
		key := comboKey{Underlying: trade.Underlying, Expiry: trade.Expiry}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], trade)
	}

	combos := make([]models.Combo, 0, len(order))
	for _, key := range order {
		legs := groups[key]
		// Stable keeps original input order for same-day legs.
		sort.SliceStable(legs, func(i, j int) bool {
			return legs[i].Date < legs[j].Date
		})

		metrics := CalculateComboMetrics(legs)
		openDate := legs[0].Date
		closeDate := legs[len(legs)-1].Date

		creditDay := openDate
		for _, leg := range legs {
			if leg.Proceeds > 0 {
				creditDay = leg.Date
				break
			}
		}
		debitDay := closeDate
		for i := len(legs) - 1; i >= 0; i-- {
			if legs[i].Proceeds < 0 {
				debitDay = legs[i].Date
				break
			}
		}

		combos = append(combos, models.Combo{
			ID:          uuid.NewString(),
			Name:        generateComboName(legs),
			Strategy:    determineStrategy(legs),
			Underlying:  legs[0].Underlying,
			EntryType:   metrics.EntryType,
			EntryAmount: metrics.EntryAmount,
			CreditDay:   creditDay,
			DebitDay:    debitDay,
			Commission:  metrics.TotalCommission,
			NetRealized: metrics.NetRealized,
			Legs:        legs,
			OpenDate:    openDate,
			CloseDate:   closeDate,
		})
	}

	return combos
}

// CalculateComboMetrics computes the aggregate P&L figures for one combo's
// legs. Entry type and amount come from the proceeds of the legs dated on
// the opening day.
func CalculateComboMetrics(legs []models.Trade) models.ComboMetrics {
	var totalProceeds, totalCommission float64
	openDate := legs[0].Date
	for _, leg := range legs {
		totalProceeds += leg.Proceeds
		totalCommission += leg.Commission
		if leg.Date < openDate {
			openDate = leg.Date
		}
	}

	var openingProceeds float64
	for _, leg := range legs {
		if leg.Date == openDate {
			openingProceeds += leg.Proceeds
		}
	}

	entryType := models.EntryTypeDebit
	if openingProceeds > 0 {
		entryType = models.EntryTypeCredit
	}

	return models.ComboMetrics{
		TotalProceeds:   totalProceeds,
		TotalCommission: totalCommission,
		NetRealized:     totalProceeds - totalCommission,
		EntryType:       entryType,
		EntryAmount:     math.Abs(openingProceeds),
	}
}

// determineStrategy classifies the combo from its distinct (strike, type)
// leg keys. Net quantity is accumulated per key but a zero-net key still
// counts as an active leg. Pure over the leg multiset: ordering and trade
// dates do not matter.
func determineStrategy(legs []models.Trade) string {
	netQuantities := make(map[legKey]float64)
	var keys []legKey
	for _, leg := range legs {
		k := legKey{Strike: leg.Strike, Type: leg.Type}
		if _, seen := netQuantities[k]; !seen {
			keys = append(keys, k)
		}
		netQuantities[k] += leg.Quantity
	}

	var numCalls, numPuts int
	for _, k := range keys {
		if k.Type == models.OptionTypeCall {
			numCalls++
		} else {
			numPuts++
		}
	}
	numLegs := len(keys)

	if numLegs == 1 {
		if numCalls == 1 {
			return "Single Call"
		}
		return "Single Put"
	}

	if numLegs == 2 {
		switch {
		case numCalls == 2:
			return "Call Spread"
		case numPuts == 2:
			return "Put Spread"
		case keys[0].Strike == keys[1].Strike:
			return "Straddle"
		default:
			return "Strangle"
		}
	}

	if numLegs == 4 {
		switch {
		case numCalls == 2 && numPuts == 2:
			return "Iron Condor"
		case numCalls == 4:
			return "Call Condor"
		case numPuts == 4:
			return "Put Condor"
		}
	}

	if numLegs > 2 {
		return "Multi-leg Combo"
	}
	return "Complex Strategy"
}

// generateComboName synthesizes the human-readable label. Any combo with
// exactly four distinct strikes is named "Iron Condor" regardless of its
// call/put composition; the Strategy field may still read "Call Condor"
// or "Put Condor".
func generateComboName(legs []models.Trade) string {
	underlying := legs[0].Underlying
	strikes := distinctStrikes(legs)
	types := distinctTypes(legs)

	if len(legs) == 1 {
		return fmt.Sprintf("%s %s %s", underlying, formatStrike(legs[0].Strike), legs[0].Type)
	}

	if len(strikes) == 2 && len(types) == 1 {
		return fmt.Sprintf("%s %s/%s %s Spread", underlying, formatStrike(strikes[0]), formatStrike(strikes[1]), types[0])
	}

	if len(strikes) == 4 {
		return fmt.Sprintf("%s %s Iron Condor", underlying, joinStrikes(strikes))
	}

	return fmt.Sprintf("%s %s Combo", underlying, joinStrikes(strikes))
}

// distinctStrikes returns the unique strikes of the legs, ascending.
func distinctStrikes(legs []models.Trade) []float64 {
	seen := make(map[float64]bool)
	var strikes []float64
	for _, leg := range legs {
		if !seen[leg.Strike] {
			seen[leg.Strike] = true
			strikes = append(strikes, leg.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

func distinctTypes(legs []models.Trade) []string {
	seen := make(map[string]bool)
	var types []string
	for _, leg := range legs {
		if !seen[leg.Type] {
			seen[leg.Type] = true
			types = append(types, leg.Type)
		}
	}
	return types
}

func joinStrikes(strikes []float64) string {
	parts := make([]string, len(strikes))
	for i, s := range strikes {
		parts[i] = formatStrike(s)
	}
	return strings.Join(parts, "/")
}

// formatStrike renders a strike without trailing zeros (500, 222.5).
func formatStrike(strike float64) string {
	return strconv.FormatFloat(strike, 'f', -1, 64)
}
