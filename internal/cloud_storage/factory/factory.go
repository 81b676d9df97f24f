package factory

import (
	"errors"
	"os"

	"github.com/signpost-app/signpost/internal/cloud_storage/gcs"
	"github.com/signpost-app/signpost/internal/cloud_storage/local"
	"github.com/signpost-app/signpost/internal/cloud_storage/types"
)

func NewStorageProvider(provider string) (types.ObjectStorage, error) {
	switch provider {
	case "gcs":
		bucketName := os.Getenv("GCS_BUCKET_NAME")
		svcaccountPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

		return gcs.NewGCSBucketHandler(svcaccountPath, bucketName)
	case "local":
		dir := os.Getenv("LOCAL_STORAGE_DIR")
		if dir == "" {
			dir = "./data/documents"
		}
		return local.NewLocalStorage(dir)
	default:
		return nil, errors.New("unknown storage type")
	}
}
