package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulentgercek/ibkr-options-journal/src/models"
)

// stubJournalService satisfies services.JournalService with canned data.
type stubJournalService struct {
	combos       []models.Combo
	prefs        models.FilterPreferences
	savedPrefs   *models.FilterPreferences
	clearedUsers []int64
}

func (s *stubJournalService) ProcessUpload(io.Reader, int64, string) ([]models.Combo, error) {
	return s.combos, nil
}

func (s *stubJournalService) GetCombos(int64) ([]models.Combo, error) {
	return s.combos, nil
}

func (s *stubJournalService) ClearCombos(userID int64) error {
	s.clearedUsers = append(s.clearedUsers, userID)
	return nil
}

func (s *stubJournalService) GetFilterPreferences(int64) (models.FilterPreferences, error) {
	return s.prefs, nil
}

func (s *stubJournalService) SaveFilterPreferences(_ int64, prefs models.FilterPreferences) error {
	s.savedPrefs = &prefs
	return nil
}

func (s *stubJournalService) ExportCombosCSV(combos []models.Combo) ([]byte, error) {
	return []byte("header\nrow\n"), nil
}

func authedRequest(method, target string, body io.Reader, userID int64) *http.Request {
	r := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	return r.WithContext(ctx)
}

func testCombos() []models.Combo {
	return []models.Combo{
		{ID: "a", Name: "SPY 500/505 CALL Spread", Strategy: "Call Spread", Underlying: "SPY", CloseDate: "2024-03-10", NetRealized: 115.80},
		{ID: "b", Name: "QQQ 430 Combo", Strategy: "Single Put", Underlying: "QQQ", CloseDate: "2024-05-20", NetRealized: -42.10},
	}
}

func TestHandleGetCombos(t *testing.T) {
	handler := NewComboHandler(&stubJournalService{combos: testCombos()})

	rec := httptest.NewRecorder()
	handler.HandleGetCombos(rec, authedRequest(http.MethodGet, "/api/combos", nil, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	var combos []models.Combo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &combos))
	assert.Len(t, combos, 2)
}

func TestHandleGetCombosRequiresAuth(t *testing.T) {
	handler := NewComboHandler(&stubJournalService{combos: testCombos()})

	rec := httptest.NewRecorder()
	handler.HandleGetCombos(rec, httptest.NewRequest(http.MethodGet, "/api/combos", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGetCombosETagNotModified(t *testing.T) {
	handler := NewComboHandler(&stubJournalService{combos: testCombos()})

	first := httptest.NewRecorder()
	handler.HandleGetCombos(first, authedRequest(http.MethodGet, "/api/combos", nil, 1))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	r := authedRequest(http.MethodGet, "/api/combos", nil, 1)
	r.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	handler.HandleGetCombos(second, r)

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.Bytes())
}

func TestHandleGetCombosAppliesQueryFilters(t *testing.T) {
	handler := NewComboHandler(&stubJournalService{combos: testCombos()})

	rec := httptest.NewRecorder()
	handler.HandleGetCombos(rec, authedRequest(http.MethodGet, "/api/combos?underlying=SPY", nil, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	var combos []models.Combo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &combos))
	require.Len(t, combos, 1)
	assert.Equal(t, "SPY", combos[0].Underlying)
}

func TestHandleExportCombos(t *testing.T) {
	handler := NewComboHandler(&stubJournalService{combos: testCombos()})

	rec := httptest.NewRecorder()
	handler.HandleExportCombos(rec, authedRequest(http.MethodGet, "/api/combos/export", nil, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "options_combos_")
}

func TestHandleClearCombos(t *testing.T) {
	stub := &stubJournalService{combos: testCombos()}
	handler := NewComboHandler(stub)

	rec := httptest.NewRecorder()
	handler.HandleClearCombos(rec, authedRequest(http.MethodDelete, "/api/combos", nil, 7))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, stub.clearedUsers)
}

func TestHandleFilterPreferences(t *testing.T) {
	stub := &stubJournalService{prefs: models.FilterPreferences{Period: "all"}}
	handler := NewPreferencesHandler(stub)

	rec := httptest.NewRecorder()
	handler.HandleGetFilterPreferences(rec, authedRequest(http.MethodGet, "/api/preferences/filters", nil, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	var prefs models.FilterPreferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.Equal(t, "all", prefs.Period)

	body := strings.NewReader(`{"underlying":"SPY","period":"custom"}`)
	rec = httptest.NewRecorder()
	handler.HandleSaveFilterPreferences(rec, authedRequest(http.MethodPut, "/api/preferences/filters", body, 1))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.savedPrefs)
	assert.Equal(t, "SPY", stub.savedPrefs.Underlying)
	assert.Equal(t, "custom", stub.savedPrefs.Period)
}

func TestHandleSaveFilterPreferencesRejectsBadBody(t *testing.T) {
	handler := NewPreferencesHandler(&stubJournalService{})

	rec := httptest.NewRecorder()
	handler.HandleSaveFilterPreferences(rec, authedRequest(http.MethodPut, "/api/preferences/filters", strings.NewReader("{not json"), 1))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
