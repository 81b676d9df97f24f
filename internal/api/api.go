package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/apperr"
	storagetypes "github.com/signpost-app/signpost/internal/cloud_storage/types"
	"github.com/signpost-app/signpost/internal/config"
	"github.com/signpost-app/signpost/internal/dispatch"
	"github.com/signpost-app/signpost/internal/logger"
	"github.com/signpost-app/signpost/internal/repo"
)

type APIServer struct {
	backendConfig config.BackendConfig
	repository    *repo.Repository
	bucketHandler storagetypes.ObjectStorage
	dispatcher    *dispatch.Dispatcher
}

func NewAPIServer(backendConfig config.BackendConfig, repository *repo.Repository, bh storagetypes.ObjectStorage, d *dispatch.Dispatcher) *APIServer {
	return &APIServer{
		backendConfig: backendConfig,
		repository:    repository,
		bucketHandler: bh,
		dispatcher:    d,
	}
}

func (s *APIServer) Start() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.backendConfig.FrontendEndpoint},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Handle("/documents/upload", http.HandlerFunc(s.uploadDocument))
	r.Handle("/documents", http.HandlerFunc(s.listDocuments))
	r.Handle("/documents/{id}", http.HandlerFunc(s.documentByID))
	r.Handle("/documents/{id}/sign", http.HandlerFunc(s.signDocument))

	r.Handle("/settings", http.HandlerFunc(s.settingsHandler))

	r.Handle("/mail/test", http.HandlerFunc(s.sendTestMail))
	r.Handle("/mail/link", http.HandlerFunc(s.sendLinkMail))

	logger.Logger.Info("listening", zap.String("port", s.backendConfig.ListenPort))
	if err := http.ListenAndServe("0.0.0.0"+s.backendConfig.ListenPort, r); err != nil {
		logger.Logger.Fatal("server stopped", zap.Error(err))
	}
}

func JSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Error encoding JSON", http.StatusInternalServerError)
		return
	}
}

// statusForError maps the dispatch error taxonomy onto response codes:
// bad stored configuration is the caller's problem, upstream rejections
// are a bad gateway, a missing row is a 404.
func statusForError(err error) int {
	var configErr *apperr.ConfigError
	var notFound *apperr.NotFoundError
	var tokenErr *apperr.TokenError
	var providerErr *apperr.ProviderError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &configErr):
		return http.StatusBadRequest
	case errors.As(err, &tokenErr), errors.As(err, &providerErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": err.Error(),
		"code":  status,
	})
}
