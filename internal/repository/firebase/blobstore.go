package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/msomdec/ricettario/internal/domain"
)

// downloadTokenKey is the object metadata key Firebase Storage reads download
// tokens from.
const downloadTokenKey = "firebaseStorageDownloadTokens"

// BlobStore implements domain.BlobStore on a Firebase Storage bucket. URLs are
// Firebase download URLs carrying the object's download token.
type BlobStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	baseURL    string
}

var _ domain.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a BlobStore. It honours STORAGE_EMULATOR_HOST when
// building download URLs.
func NewBlobStore(bucket *storage.BucketHandle, bucketName string) *BlobStore {
	base := "https://firebasestorage.googleapis.com"
	if host := strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")); host != "" {
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		base = strings.TrimRight(host, "/")
	}
	return &BlobStore{bucket: bucket, bucketName: bucketName, baseURL: base}
}

func (s *BlobStore) Upload(ctx context.Context, path, contentType string, data []byte) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokenKey: uuid.NewString()}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", path, err)
	}
	return nil
}

func (s *BlobStore) URL(ctx context.Context, path string) (string, error) {
	attrs, err := s.bucket.Object(path).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("object attrs %s: %w", path, err)
	}

	token, _, _ := strings.Cut(attrs.Metadata[downloadTokenKey], ",")
	return downloadURL(s.baseURL, s.bucketName, path, token), nil
}

func downloadURL(base, bucket, path, token string) string {
	u := fmt.Sprintf("%s/v0/b/%s/o/%s?alt=media", base, bucket, url.PathEscape(path))
	if token != "" {
		u += "&token=" + url.QueryEscape(token)
	}
	return u
}
