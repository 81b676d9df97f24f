package api

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/logger"
	"github.com/signpost-app/signpost/internal/repo"
)

func (s *APIServer) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
		return
	}
	ctx := r.Context()

	ownerID := r.FormValue("owner_id")
	if ownerID == "" {
		http.Error(w, "missing owner_id", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Failed to parse file from request", http.StatusBadRequest)
		logger.Logger.Error("upload parse failed", zap.Error(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	objectName := fmt.Sprintf("%s/%d_%s", ownerID, time.Now().UnixNano(), header.Filename)
	if err := s.bucketHandler.PutObject(ctx, objectName, data); err != nil {
		logger.Logger.Error("upload to storage failed", zap.Error(err))
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	doc := &repo.Document{
		OwnerID:           ownerID,
		Name:              name,
		FilePath:          objectName,
		SignaturePosition: nullable(r.FormValue("signature_position")),
		DatePosition:      nullable(r.FormValue("date_position")),
	}
	id, err := s.repository.InsertDocument(ctx, doc)
	if err != nil {
		logger.Logger.Error("insert document failed", zap.Error(err))
		http.Error(w, "Failed to save document", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	JSON(w, map[string]any{
		"status": http.StatusOK,
		"response": map[string]any{
			"id":        id,
			"name":      name,
			"file_path": objectName,
		},
	})
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
