package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/signpost-app/signpost/internal/api"
	storagefactory "github.com/signpost-app/signpost/internal/cloud_storage/factory"
	storagetypes "github.com/signpost-app/signpost/internal/cloud_storage/types"
	"github.com/signpost-app/signpost/internal/config"
	"github.com/signpost-app/signpost/internal/dispatch"
	"github.com/signpost-app/signpost/internal/logger"
	"github.com/signpost-app/signpost/internal/repo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Logger.Info("no .env file, using process environment")
	}

	frontendEndpoint := os.Getenv("FRONTEND_ENDPOINT")
	listenPort := os.Getenv("LISTEN_PORT")
	if listenPort == "" {
		listenPort = ":3000"
	}

	dbHost := os.Getenv("DB_HOST")
	dbUser := os.Getenv("POSTGRES_USER")
	dbPassword := os.Getenv("POSTGRES_PASSWORD")
	dbName := os.Getenv("POSTGRES_DB")

	//postgres://<user>:<pass>@<dbhost>:5432/<dbname>?sslmode=disable
	connStr := fmt.Sprintf("postgres://%s:%s@%s:5432/%s?sslmode=disable", dbUser, dbPassword, dbHost, dbName)

	repository, err := InitRepository(connStr)
	if err != nil {
		logger.Logger.Fatal("repository init failed", zap.Error(err))
	}
	defer repository.Close()

	storageProvider := os.Getenv("STORAGE_PROVIDER")
	if storageProvider == "" {
		storageProvider = "gcs"
	}

	bucketHandler, err := InitObjectStorage(storageProvider)
	if err != nil {
		logger.Logger.Fatal("storage init failed", zap.Error(err))
	}
	defer bucketHandler.Close()

	htmlSanitizationPolicy := bluemonday.StrictPolicy()

	backendConfig := config.BackendConfig{
		ListenPort:             listenPort,
		FrontendEndpoint:       frontendEndpoint,
		HTMLSanitizationPolicy: htmlSanitizationPolicy,
	}

	dispatcher := dispatch.NewDispatcher(bucketHandler, backendConfig.HTMLSanitizationPolicy)

	s := api.NewAPIServer(backendConfig, repository, bucketHandler, dispatcher)
	s.Start()
}

func InitObjectStorage(storageProvider string) (storagetypes.ObjectStorage, error) {
	return storagefactory.NewStorageProvider(storageProvider)
}

func InitRepository(connString string) (*repo.Repository, error) {
	if connString == "" {
		panic("no conn string provided")
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	return repo.NewRepository(db)
}
