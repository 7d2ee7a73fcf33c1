package store

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderkoo04/language/internal/gcp"
)

// blobNamespace is the logical prefix under which every translated page
// lives. No public URL is ever exposed; all reads go through GET /render.
const blobNamespace = "pages"

// BlobStore persists the final HTML payloads in a Cloud Storage bucket.
type BlobStore struct {
	bucket *storage.BucketHandle
	log    *zap.Logger
}

// NewBlobStore creates a blob store over the given bucket.
func NewBlobStore(client *storage.Client, bucketName string, log *zap.Logger) *BlobStore {
	return &BlobStore{
		bucket: client.Bucket(bucketName),
		log:    log,
	}
}

// Upload stores the HTML under a freshly generated key and returns the key.
func (s *BlobStore) Upload(ctx context.Context, html string) (string, error) {
	objectName := fmt.Sprintf("%s/%s.html", blobNamespace, uuid.New().String())
	if err := gcp.SaveObjectAtomically(ctx, s.bucket, objectName, "text/html; charset=utf-8", html); err != nil {
		return "", fmt.Errorf("failed to upload page: %w", err)
	}
	s.log.Info("page uploaded", zap.String("path", objectName))
	return objectName, nil
}

// Download retrieves a previously stored page by key.
func (s *BlobStore) Download(ctx context.Context, path string) (string, error) {
	reader, err := s.bucket.Object(path).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open page %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read page %s: %w", path, err)
	}
	return string(data), nil
}

// Delete removes a stored page. Used as best-effort cleanup when the record
// insert fails after a successful upload.
func (s *BlobStore) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", path, err)
	}
	return nil
}
