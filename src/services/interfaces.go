package services

import (
	"errors"
	"io"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

var (
	// ErrParsingFailed signals that the statement could not be tokenized at all.
	ErrParsingFailed = errors.New("statement parsing failed")
	// ErrNoOptionTrades signals an empty result after extraction.
	ErrNoOptionTrades = errors.New("no option trades found in statement")
	// ErrNoRealizedTrades signals an empty result after realization filtering.
	ErrNoRealizedTrades = errors.New("no realized option positions found in statement")
)

// JournalService runs the ingestion pipeline and manages the stored combo
// set and filter preferences per user.
type JournalService interface {
	ProcessUpload(fileReader io.Reader, userID int64, source string) ([]models.Combo, error)
	GetCombos(userID int64) ([]models.Combo, error)
	ClearCombos(userID int64) error
	GetFilterPreferences(userID int64) (models.FilterPreferences, error)
	SaveFilterPreferences(userID int64, prefs models.FilterPreferences) error
	ExportCombosCSV(combos []models.Combo) ([]byte, error)
}
