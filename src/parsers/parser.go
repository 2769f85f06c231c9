package parsers

import (
	"io"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

// Parser turns a broker activity export into the option trades it contains.
type Parser interface {
	Parse(file io.Reader) ([]models.Trade, error)
}
