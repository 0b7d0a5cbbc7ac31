// Package app assembles the configured backend, services and HTTP server.
package app

import (
	"context"
	"fmt"

	"github.com/msomdec/ricettario/internal/config"
	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/firebase"
	"github.com/msomdec/ricettario/internal/repository/sqlite"
)

// Backend is the set of stores behind one configured backend.
type Backend struct {
	Name    string
	DB      domain.Database
	Users   domain.UserRepository
	Recipes domain.RecipeRepository
	Blobs   domain.BlobStore
	// BlobReader is set when photos are served by this process.
	BlobReader domain.BlobReader
}

// OpenBackend connects to the backend selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		blobs := db.Blobs()
		return &Backend{
			Name:       cfg.Backend,
			DB:         db,
			Users:      db.Users(),
			Recipes:    db.Recipes(),
			Blobs:      blobs,
			BlobReader: blobs,
		}, nil

	case config.BackendFirebase:
		client, err := firebase.Open(ctx, firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			StorageBucket:   cfg.Firebase.StorageBucket,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("open firebase: %w", err)
		}
		return &Backend{
			Name:    cfg.Backend,
			DB:      client,
			Users:   client.Users(),
			Recipes: client.Recipes(),
			Blobs:   client.Blobs(),
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	return b.DB.Close()
}
