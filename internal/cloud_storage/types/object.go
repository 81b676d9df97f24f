package types

import "context"

// ObjectStorage holds the uploaded documents. The dispatch pipeline only
// ever reads; the upload handler writes.
type ObjectStorage interface {
	PutObject(ctx context.Context, name string, data []byte) error
	GetObject(ctx context.Context, name string) ([]byte, error)
	DeleteObject(ctx context.Context, name string) error
	Close() error
}
