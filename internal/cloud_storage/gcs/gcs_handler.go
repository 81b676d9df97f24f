package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/signpost-app/signpost/internal/cloud_storage/types"
	"github.com/signpost-app/signpost/internal/logger"
)

type GCSBucketHandler struct {
	Client                *storage.Client
	ServiceAccountKeyPath string
	BucketName            string
}

func NewGCSBucketHandler(svcaccountPath, bucketName string) (types.ObjectStorage, error) {
	var err error
	for i := 0; i < 5; i++ {
		_, err = os.Stat(svcaccountPath)
		if err == nil {
			break
		}
		logger.Logger.Sugar().Infof("Retrying to find credentials file (%s): %v", svcaccountPath, err)
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("credentials file not found after retries: %w", err)
	}

	client, err := storage.NewClient(context.Background(), option.WithCredentialsFile(svcaccountPath))
	if err != nil {
		return nil, err
	}

	return &GCSBucketHandler{
		Client:                client,
		ServiceAccountKeyPath: svcaccountPath,
		BucketName:            bucketName,
	}, nil
}

func (b *GCSBucketHandler) PutObject(ctx context.Context, name string, data []byte) error {
	w := b.Client.Bucket(b.BucketName).Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (b *GCSBucketHandler) GetObject(ctx context.Context, name string) ([]byte, error) {
	r, err := b.Client.Bucket(b.BucketName).Object(name).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (b *GCSBucketHandler) DeleteObject(ctx context.Context, name string) error {
	return b.Client.Bucket(b.BucketName).Object(name).Delete(ctx)
}

func (b *GCSBucketHandler) Close() error {
	return b.Client.Close()
}
