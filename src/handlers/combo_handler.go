package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/models"
	"github.com/bulentgercek/ibkr-options-journal/src/services"
	"github.com/bulentgercek/ibkr-options-journal/src/utils"
)

type ComboHandler struct {
	journalService services.JournalService
}

func NewComboHandler(service services.JournalService) *ComboHandler {
	return &ComboHandler{
		journalService: service,
	}
}

// filtersFromQuery reads the optional combo-list filters from the request.
func filtersFromQuery(r *http.Request) models.FilterPreferences {
	q := r.URL.Query()
	return models.FilterPreferences{
		DateFrom:   q.Get("from"),
		DateTo:     q.Get("to"),
		Underlying: q.Get("underlying"),
		Strategy:   q.Get("strategy"),
	}
}

// HandleGetCombos returns the user's stored combos, optionally filtered by
// close-date range, underlying and strategy, with ETag support.
func (h *ComboHandler) HandleGetCombos(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	combos, err := h.journalService.GetCombos(userID)
	if err != nil {
		logger.L.Error("Error retrieving combos from service", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving combos: %v", err), http.StatusInternalServerError)
		return
	}

	combos = services.FilterCombos(combos, filtersFromQuery(r))

	w.Header().Set("Cache-Control", "no-cache, private")
	if currentETag, etagErr := utils.GenerateETag(combos); etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(combos); err != nil {
		logger.L.Error("Error encoding JSON response for combos", "userID", userID, "error", err)
	}
}

// HandleExportCombos streams the user's (filtered) combos as a CSV download.
func (h *ComboHandler) HandleExportCombos(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	combos, err := h.journalService.GetCombos(userID)
	if err != nil {
		logger.L.Error("Error retrieving combos for export", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving combos: %v", err), http.StatusInternalServerError)
		return
	}

	combos = services.FilterCombos(combos, filtersFromQuery(r))

	csvData, err := h.journalService.ExportCombosCSV(combos)
	if err != nil {
		logger.L.Error("Error building CSV export", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error building CSV export", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("options_combos_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(csvData); err != nil {
		logger.L.Error("Error writing CSV export response", "userID", userID, "error", err)
	}
}

// HandleClearCombos deletes the user's stored combo set and preferences.
func (h *ComboHandler) HandleClearCombos(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.journalService.ClearCombos(userID); err != nil {
		logger.L.Error("Error clearing journal data", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error clearing journal data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "journal data cleared"})
}
