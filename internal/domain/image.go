package domain

import "context"

// ImageUpload is a photo chosen in a recipe form.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// BlobStore abstracts the object store that keeps recipe photos.
type BlobStore interface {
	// Upload writes data at path, replacing any existing object.
	Upload(ctx context.Context, path, contentType string, data []byte) error
	// URL returns a retrievable URL for an uploaded object.
	URL(ctx context.Context, path string) (string, error)
}

// BlobReader is implemented by blob stores that serve their own objects
// through this application rather than through a public URL.
type BlobReader interface {
	Open(ctx context.Context, path string) (data []byte, contentType string, err error)
}
