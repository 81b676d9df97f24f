package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/dispatch"
	"github.com/signpost-app/signpost/internal/fanout"
	"github.com/signpost-app/signpost/internal/logger"
	"github.com/signpost-app/signpost/pkg"
)

// The legacy "bottom" sentinel flows through unchanged: the position
// resolver absorbs it into the fallback offsets.
func (s *APIServer) signDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
		return
	}
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	type SignRequest struct {
		ClientName    string `json:"clientName"`
		SignatureData string `json:"signatureData"`
		MultiSendMode string `json:"multiSendMode"`
	}

	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid_json", http.StatusBadRequest)
		return
	}

	doc, err := s.repository.GetDocument(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	settings, err := s.repository.GetSettings(ctx, doc.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	signatureImage, _ := pkg.DecodeSignatureDataURI(req.SignatureData)

	err = s.dispatcher.DispatchSignedDocument(ctx,
		dispatch.DocumentRecord{
			Name:              doc.Name,
			FilePath:          doc.FilePath,
			SignaturePosition: doc.SignaturePosition.String,
			DatePosition:      doc.DatePosition.String,
		},
		dispatch.SettingsRecord{
			SenderEmail:     settings.SenderEmail,
			ReceiverConfig:  settings.ReceiverConfig,
			EmailProvider:   settings.EmailProvider,
			EmailCredential: settings.EmailCredential,
		},
		req.ClientName,
		signatureImage,
		fanout.Mode(req.MultiSendMode),
	)
	if err != nil {
		logger.Logger.Error("dispatch failed",
			zap.Int64("document_id", id),
			zap.Error(err))
		writeError(w, err)
		return
	}

	JSON(w, map[string]any{
		"success": true,
	})
}
