package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/dispatch"
	"github.com/signpost-app/signpost/internal/logger"
	"github.com/signpost-app/signpost/internal/mailservice/credentials"
)

// savedCredentialSentinel lets the UI re-test stored settings without ever
// echoing the credential back to the browser.
const savedCredentialSentinel = "__use_saved__"

func (s *APIServer) sendTestMail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
		return
	}
	ctx := r.Context()

	type TestMailRequest struct {
		Provider      string `json:"provider"`
		APIKey        string `json:"apiKey"`
		SenderEmail   string `json:"senderEmail"`
		ReceiverEmail string `json:"receiverEmail"`
		OwnerID       string `json:"ownerId"`
	}

	var req TestMailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid_json", http.StatusBadRequest)
		return
	}

	if req.Provider == "" || req.APIKey == "" || req.SenderEmail == "" || req.ReceiverEmail == "" {
		http.Error(w, "missing parameters: provider, apiKey, senderEmail, receiverEmail", http.StatusBadRequest)
		return
	}

	credentialBlob := req.APIKey
	if credentialBlob == savedCredentialSentinel {
		settings, err := s.repository.GetSettings(ctx, req.OwnerID)
		if err != nil {
			writeError(w, err)
			return
		}
		credentialBlob = settings.EmailCredential
	}

	err := s.dispatcher.SendTestMessage(ctx,
		credentials.Provider(req.Provider), credentialBlob, req.SenderEmail, req.ReceiverEmail)
	if err != nil {
		logger.Logger.Error("test mail failed",
			zap.String("provider", req.Provider),
			zap.Error(err))
		writeError(w, err)
		return
	}

	JSON(w, map[string]any{
		"success": true,
	})
}

func (s *APIServer) sendLinkMail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
		return
	}
	ctx := r.Context()

	type LinkMailRequest struct {
		OwnerID      string `json:"ownerId"`
		To           string `json:"to"`
		DocumentName string `json:"documentName"`
		Link         string `json:"link"`
	}

	var req LinkMailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid_json", http.StatusBadRequest)
		return
	}

	settings, err := s.repository.GetSettings(ctx, req.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	err = s.dispatcher.SendLinkMessage(ctx,
		dispatch.SettingsRecord{
			SenderEmail:     settings.SenderEmail,
			ReceiverConfig:  settings.ReceiverConfig,
			EmailProvider:   settings.EmailProvider,
			EmailCredential: settings.EmailCredential,
		},
		req.To, req.DocumentName, req.Link)
	if err != nil {
		logger.Logger.Error("link mail failed", zap.Error(err))
		writeError(w, err)
		return
	}

	JSON(w, map[string]any{
		"success": true,
	})
}
