// internal/storage/storage.go
package storage

import "context"

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations report
// archiving needs.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
}
