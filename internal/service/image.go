package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/ricettario/internal/domain"
)

// DefaultMaxImageSize bounds an uploaded photo when no limit is configured.
const DefaultMaxImageSize = 10 * 1024 * 1024

const imagePrefix = "recipes/"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageService validates recipe photos and stores them in the blob store.
type ImageService struct {
	blobs   domain.BlobStore
	maxSize int
	now     func() time.Time
}

// NewImageService creates a new ImageService. A non-positive maxSize uses
// DefaultMaxImageSize.
func NewImageService(blobs domain.BlobStore, maxSize int) *ImageService {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &ImageService{blobs: blobs, maxSize: maxSize, now: time.Now}
}

// Upload stores the image under recipes/<unix millis>_<file name> and returns
// its retrieval URL.
func (s *ImageService) Upload(ctx context.Context, img domain.ImageUpload) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}
	if len(img.Data) > s.maxSize {
		return "", fmt.Errorf("%w: image exceeds %d MB limit", domain.ErrInvalidInput, s.maxSize>>20)
	}

	// Sniff the bytes rather than trusting the multipart header.
	contentType := http.DetectContentType(img.Data)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: only JPEG, PNG, GIF and WebP images are accepted", domain.ErrInvalidInput)
	}

	key := ObjectPath(s.now(), img.Filename)
	if err := s.blobs.Upload(ctx, key, contentType, img.Data); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	url, err := s.blobs.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("image url: %w", err)
	}
	return url, nil
}

// ObjectPath names an uploaded image: the upload time in milliseconds keeps
// names unique, the original file name keeps them readable.
func ObjectPath(at time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return imagePrefix + strconv.FormatInt(at.UnixMilli(), 10) + "_" + name
}
