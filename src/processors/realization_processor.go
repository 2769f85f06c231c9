package processors

import (
	"math"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

// positionTolerance absorbs floating point drift when checking whether a
// position is flat.
const positionTolerance = 0.01

// seriesKey identifies one contract series, the unit over which a position
// is tracked.
type seriesKey struct {
	Underlying string
	Expiry     string
	Strike     float64
	Type       string
}

func seriesKeyOf(t models.Trade) seriesKey {
	return seriesKey{Underlying: t.Underlying, Expiry: t.Expiry, Strike: t.Strike, Type: t.Type}
}

type realizationProcessorImpl struct{}

// NewRealizationProcessor creates a new instance of RealizationProcessor.
func NewRealizationProcessor() RealizationProcessor {
	return &realizationProcessorImpl{}
}

// Process filters the date-ascending trade list down to the trades of
// fully closed contract series, preserving input order.
//
// Two passes are required: the first tentatively marks opening trades and
// trades that reduce, flip or close a position; the second recomputes the
// final net position per series over the whole input and discards every
// series that does not end flat. A trade can look like a clean close
// mid-stream while its series reopens later in the file, so the per-trade
// pass alone is not sufficient.
func (p *realizationProcessorImpl) Process(trades []models.Trade) []models.Trade {
	positions := make(map[seriesKey]float64)
	var marked []models.Trade

	for _, trade := range trades {
		key := seriesKeyOf(trade)
		current := positions[key]
		next := current + trade.Quantity
		positions[key] = next

		switch {
		case (current > 0 && trade.Quantity < 0) ||
			(current < 0 && trade.Quantity > 0) ||
			math.Abs(next) < positionTolerance:
			marked = append(marked, trade)
		case current == 0 && trade.Quantity != 0:
			// Opening trade from flat; it will be part of a combo.
			marked = append(marked, trade)
		}
	}

	finalPositions := make(map[seriesKey]float64)
	for _, trade := range trades {
		finalPositions[seriesKeyOf(trade)] += trade.Quantity
	}

	var realized []models.Trade
	for _, trade := range marked {
		if math.Abs(finalPositions[seriesKeyOf(trade)]) < positionTolerance {
			realized = append(realized, trade)
		}
	}

	return realized
}
