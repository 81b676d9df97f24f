package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/logger"
)

func (s *APIServer) documentByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		s.renameDocument(w, r)
	case http.MethodDelete:
		s.deleteDocument(w, r)
	default:
		w.WriteHeader(http.StatusBadRequest)
		JSON(w, map[string]any{
			"response": "bad_request",
			"code":     http.StatusBadRequest,
		})
	}
}

func (s *APIServer) renameDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid_json", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	if err := s.repository.RenameDocument(r.Context(), id, req.Name); err != nil {
		writeError(w, err)
		return
	}

	JSON(w, map[string]any{
		"success": true,
	})
}

func (s *APIServer) deleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	doc, err := s.repository.GetDocument(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.repository.DeleteDocument(ctx, id); err != nil {
		writeError(w, err)
		return
	}

	// The row is authoritative; a storage miss here only leaves an orphan
	// object behind.
	if err := s.bucketHandler.DeleteObject(ctx, doc.FilePath); err != nil {
		logger.Logger.Warn("deleting stored object failed",
			zap.String("object", doc.FilePath),
			zap.Error(err))
	}

	JSON(w, map[string]any{
		"success": true,
	})
}
