package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bulentgercek/ibkr-options-journal/src/database"
	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/models"
	"github.com/bulentgercek/ibkr-options-journal/src/parsers"
	"github.com/bulentgercek/ibkr-options-journal/src/processors"
)

const (
	ckCombos = "combos_user_%d"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type journalServiceImpl struct {
	realizationProcessor processors.RealizationProcessor
	comboProcessor       processors.ComboProcessor
	reportCache          *cache.Cache
}

func NewJournalService(
	realizationProcessor processors.RealizationProcessor,
	comboProcessor processors.ComboProcessor,
	reportCache *cache.Cache,
) JournalService {
	return &journalServiceImpl{
		realizationProcessor: realizationProcessor,
		comboProcessor:       comboProcessor,
		reportCache:          reportCache,
	}
}

// ProcessUpload runs the full pipeline over one statement file: extract
// option trades, keep only realized positions, group them into combos, and
// replace the user's stored combo set. Each ingestion produces a wholly
// new combo set; there is no merge with prior uploads.
func (s *journalServiceImpl) ProcessUpload(fileReader io.Reader, userID int64, source string) ([]models.Combo, error) {
	start := time.Now()
	logger.L.Info("ProcessUpload START", "userID", userID, "source", source)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	trades, err := parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if len(trades) == 0 {
		return nil, ErrNoOptionTrades
	}

	realized := s.realizationProcessor.Process(trades)
	if len(realized) == 0 {
		return nil, ErrNoRealizedTrades
	}

	combos := s.comboProcessor.Process(realized)

	if err := s.storeComboSet(userID, combos); err != nil {
		return nil, err
	}
	s.reportCache.Set(fmt.Sprintf(ckCombos, userID), combos, DefaultCacheExpiration)

	logger.L.Info("ProcessUpload END",
		"userID", userID,
		"trades", len(trades),
		"realizedTrades", len(realized),
		"combos", len(combos),
		"duration", time.Since(start))
	return combos, nil
}

// GetCombos returns the user's stored combo set, from cache when possible.
// A user with no stored data gets an empty slice, not an error.
func (s *journalServiceImpl) GetCombos(userID int64) ([]models.Combo, error) {
	cacheKey := fmt.Sprintf(ckCombos, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for combos", "userID", userID)
		return cached.([]models.Combo), nil
	}

	var payload string
	err := database.DB.QueryRow(`SELECT payload FROM combo_sets WHERE user_id = ?`, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return []models.Combo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying combo set for userID %d: %w", userID, err)
	}

	// The payload is stored opaquely; previously serialized combos round-trip
	// without modification.
	var combos []models.Combo
	if err := json.Unmarshal([]byte(payload), &combos); err != nil {
		return nil, fmt.Errorf("error decoding stored combo set for userID %d: %w", userID, err)
	}

	s.reportCache.Set(cacheKey, combos, DefaultCacheExpiration)
	return combos, nil
}

// ClearCombos removes the user's stored combo set and filter preferences.
func (s *journalServiceImpl) ClearCombos(userID int64) error {
	if _, err := database.DB.Exec(`DELETE FROM combo_sets WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("error clearing combo set for userID %d: %w", userID, err)
	}
	if _, err := database.DB.Exec(`DELETE FROM filter_preferences WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("error clearing filter preferences for userID %d: %w", userID, err)
	}
	s.reportCache.Delete(fmt.Sprintf(ckCombos, userID))
	logger.L.Info("Cleared stored journal data", "userID", userID)
	return nil
}

// GetFilterPreferences restores the user's saved filter record, defaulting
// to the all-time period when nothing is stored.
func (s *journalServiceImpl) GetFilterPreferences(userID int64) (models.FilterPreferences, error) {
	var payload string
	err := database.DB.QueryRow(`SELECT payload FROM filter_preferences WHERE user_id = ?`, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.FilterPreferences{Period: "all"}, nil
	}
	if err != nil {
		return models.FilterPreferences{}, fmt.Errorf("error querying filter preferences for userID %d: %w", userID, err)
	}

	var prefs models.FilterPreferences
	if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
		return models.FilterPreferences{}, fmt.Errorf("error decoding filter preferences for userID %d: %w", userID, err)
	}
	return prefs, nil
}

// SaveFilterPreferences persists the filter record verbatim.
func (s *journalServiceImpl) SaveFilterPreferences(userID int64, prefs models.FilterPreferences) error {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("error encoding filter preferences: %w", err)
	}
	_, err = database.DB.Exec(
		`INSERT INTO filter_preferences (user_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error saving filter preferences for userID %d: %w", userID, err)
	}
	return nil
}

func (s *journalServiceImpl) storeComboSet(userID int64, combos []models.Combo) error {
	payload, err := json.Marshal(combos)
	if err != nil {
		return fmt.Errorf("error encoding combo set: %w", err)
	}
	_, err = database.DB.Exec(
		`INSERT INTO combo_sets (user_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error storing combo set for userID %d: %w", userID, err)
	}
	return nil
}

// FilterCombos applies the saved filter record to a combo list. Date
// bounds compare against the combo's close date, matching how the journal
// UI has always filtered.
func FilterCombos(combos []models.Combo, prefs models.FilterPreferences) []models.Combo {
	filtered := make([]models.Combo, 0, len(combos))
	for _, combo := range combos {
		if prefs.DateFrom != "" && combo.CloseDate < prefs.DateFrom {
			continue
		}
		if prefs.DateTo != "" && combo.CloseDate > prefs.DateTo {
			continue
		}
		if prefs.Underlying != "" && combo.Underlying != prefs.Underlying {
			continue
		}
		if prefs.Strategy != "" && combo.Strategy != prefs.Strategy {
			continue
		}
		filtered = append(filtered, combo)
	}
	return filtered
}
