package parsers

import (
	"fmt"

	"github.com/bulentgercek/ibkr-options-journal/src/parsers/ibkr"
)

func GetParser(source string) (Parser, error) {
	switch source {
	case "ibkr":
		return ibkr.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
