package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/msomdec/ricettario/internal/domain"
)

// BlobPrefix is the URL path under which the HTTP layer serves SQLite blobs.
const BlobPrefix = "/blobs/"

// BlobStore implements domain.BlobStore and domain.BlobReader using SQLite
// BLOBs. Objects are served back by this application under BlobPrefix.
type BlobStore struct {
	db *sql.DB
}

var (
	_ domain.BlobStore  = (*BlobStore)(nil)
	_ domain.BlobReader = (*BlobStore)(nil)
)

func (s *BlobStore) Upload(ctx context.Context, path, contentType string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (path, content_type, data) VALUES (?, ?, ?)
		 ON CONFLICT (path) DO UPDATE SET content_type = excluded.content_type, data = excluded.data`,
		path, contentType, data,
	)
	if err != nil {
		return fmt.Errorf("save blob: %w", err)
	}
	return nil
}

func (s *BlobStore) URL(ctx context.Context, path string) (string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM blobs WHERE path = ?", path).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("lookup blob: %w", err)
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return BlobPrefix + strings.Join(segments, "/"), nil
}

func (s *BlobStore) Open(ctx context.Context, path string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT data, content_type FROM blobs WHERE path = ?", path,
	).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get blob: %w", err)
	}
	return data, contentType, nil
}
