package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/logger"
)

func (s *APIServer) listDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		http.Error(w, "missing owner_id", http.StatusBadRequest)
		return
	}

	docs, err := s.repository.ListDocuments(r.Context(), ownerID)
	if err != nil {
		logger.Logger.Error("list documents failed", zap.Error(err))
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}

	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]any{
			"id":                 d.ID,
			"name":               d.Name,
			"file_path":          d.FilePath,
			"signature_position": d.SignaturePosition.String,
			"date_position":      d.DatePosition.String,
			"created_at":         d.CreatedAt,
		})
	}

	JSON(w, map[string]any{
		"status":   http.StatusOK,
		"response": out,
	})
}
