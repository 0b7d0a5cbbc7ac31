// Package firebase implements the document store, user store and blob store on
// Firestore and Firebase Storage.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/recipedoc"
)

// Config selects the Firebase project and bucket.
type Config struct {
	ProjectID       string
	StorageBucket   string
	CredentialsFile string // optional; Application Default Credentials otherwise
}

// Client owns the Firestore and Storage clients derived from one Firebase app.
type Client struct {
	App       *fbapp.App
	Firestore *firestore.Client
	Bucket    *storage.BucketHandle

	bucketName string
}

var _ domain.Database = (*Client)(nil)

// Open initializes the Firebase app and its Firestore and Storage clients.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firebase: project id is empty")
	}
	bucketName := strings.TrimSpace(cfg.StorageBucket)
	if bucketName == "" {
		return nil, errors.New("firebase: storage bucket is empty")
	}

	var opts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.CredentialsFile); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
		slog.Info("using credentials file for firebase", "path", credFile)
	} else {
		slog.Info("using application default credentials for firebase")
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     projectID,
		StorageBucket: bucketName,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	st, err := app.Storage(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("storage client: %w", err)
	}
	bucket, err := st.Bucket(bucketName)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("storage bucket %s: %w", bucketName, err)
	}

	slog.Info("firebase connected", "project", projectID, "bucket", bucketName)
	return &Client{App: app, Firestore: fs, Bucket: bucket, bucketName: bucketName}, nil
}

// Migrate is a no-op; Firestore collections need no schema.
func (c *Client) Migrate(ctx context.Context) error {
	return nil
}

// PendingMigrations always reports none.
func (c *Client) PendingMigrations(ctx context.Context) ([]string, error) {
	return nil, nil
}

// Ping reads at most one recipe document to check Firestore is reachable.
func (c *Client) Ping(ctx context.Context) error {
	iter := c.Firestore.Collection(recipedoc.Collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

// Close releases the Firestore client.
func (c *Client) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

// Users returns the Firestore-backed user repository.
func (c *Client) Users() *UserRepository {
	return NewUserRepository(c.Firestore)
}

// Recipes returns the Firestore-backed recipe repository.
func (c *Client) Recipes() *RecipeRepository {
	return NewRecipeRepository(c.Firestore)
}

// Blobs returns the Storage-backed blob store.
func (c *Client) Blobs() *BlobStore {
	return NewBlobStore(c.Bucket, c.bucketName)
}

// validID rejects ids Firestore would interpret as a path.
func validID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && !strings.Contains(id, "/")
}
