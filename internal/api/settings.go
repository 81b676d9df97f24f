package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/logger"
	"github.com/signpost-app/signpost/internal/repo"
)

func (s *APIServer) settingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getSettings(w, r)
	case http.MethodPost:
		s.saveSettings(w, r)
	default:
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
	}
}

func (s *APIServer) getSettings(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		http.Error(w, "missing owner_id", http.StatusBadRequest)
		return
	}

	settings, err := s.repository.GetSettings(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	// The credential blob never leaves the server.
	JSON(w, map[string]any{
		"status": http.StatusOK,
		"response": map[string]any{
			"ownerId":        settings.OwnerID,
			"senderEmail":    settings.SenderEmail,
			"receiverConfig": settings.ReceiverConfig,
			"emailProvider":  settings.EmailProvider,
			"hasCredential":  settings.EmailCredential != "",
		},
	})
}

func (s *APIServer) saveSettings(w http.ResponseWriter, r *http.Request) {
	type SettingsRequest struct {
		OwnerID         string `json:"ownerId"`
		SenderEmail     string `json:"senderEmail"`
		ReceiverConfig  string `json:"receiverConfig"`
		EmailProvider   string `json:"emailProvider"`
		EmailCredential string `json:"emailCredential"`
	}

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid_json", http.StatusBadRequest)
		return
	}
	if req.OwnerID == "" {
		http.Error(w, "missing ownerId", http.StatusBadRequest)
		return
	}

	err := s.repository.UpsertSettings(r.Context(), &repo.Settings{
		OwnerID:         req.OwnerID,
		SenderEmail:     req.SenderEmail,
		ReceiverConfig:  req.ReceiverConfig,
		EmailProvider:   req.EmailProvider,
		EmailCredential: req.EmailCredential,
	})
	if err != nil {
		logger.Logger.Error("save settings failed", zap.Error(err))
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]any{
		"success": true,
	})
}
