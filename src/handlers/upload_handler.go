package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bulentgercek/ibkr-options-journal/src/config"
	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/security/validation"
	"github.com/bulentgercek/ibkr-options-journal/src/services"
	"github.com/bulentgercek/ibkr-options-journal/src/utils"
)

type UploadHandler struct {
	journalService services.JournalService
}

func NewUploadHandler(service services.JournalService) *UploadHandler {
	return &UploadHandler{
		journalService: service,
	}
}

// HandleUpload ingests one activity statement file and responds with the
// freshly computed combo set. The two empty-pipeline conditions are
// reported as distinct messages so the client can tell the user which
// stage produced nothing.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateClientContentType(fileHeader.Header.Get("Content-Type")); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.L.Warn("File content validation failed", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "ibkr"
	}

	logger.L.Info("Processing upload request", "userID", userID, "filename", fileHeader.Filename, "source", source)
	combos, err := h.journalService.ProcessUpload(file, userID, source)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoOptionTrades):
			utils.SendJSONError(w, "No option trades found in the statement. Please check the file format.", http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrNoRealizedTrades):
			utils.SendJSONError(w, "No realized (closed) option positions found in the statement.", http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrParsingFailed):
			utils.SendJSONError(w, fmt.Sprintf("Error parsing statement file: %v", err), http.StatusBadRequest)
		default:
			logger.L.Error("Internal error processing upload", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(combos); err != nil {
		logger.L.Error("Error encoding JSON response for upload result", "userID", userID, "error", err)
	}
}
