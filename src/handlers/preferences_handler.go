package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/models"
	"github.com/bulentgercek/ibkr-options-journal/src/services"
	"github.com/bulentgercek/ibkr-options-journal/src/utils"
)

type PreferencesHandler struct {
	journalService services.JournalService
}

func NewPreferencesHandler(service services.JournalService) *PreferencesHandler {
	return &PreferencesHandler{
		journalService: service,
	}
}

// HandleGetFilterPreferences restores the user's saved filter record.
func (h *PreferencesHandler) HandleGetFilterPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	prefs, err := h.journalService.GetFilterPreferences(userID)
	if err != nil {
		logger.L.Error("Error retrieving filter preferences", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving filter preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(prefs); err != nil {
		logger.L.Error("Error encoding filter preferences response", "userID", userID, "error", err)
	}
}

// HandleSaveFilterPreferences persists the filter record exactly as sent.
func (h *PreferencesHandler) HandleSaveFilterPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var prefs models.FilterPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.journalService.SaveFilterPreferences(userID, prefs); err != nil {
		logger.L.Error("Error saving filter preferences", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error saving filter preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}
