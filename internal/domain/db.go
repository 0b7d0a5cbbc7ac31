package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// Backends that need no schema management implement Migrate as a no-op and
// report no pending migrations.
type Database interface {
	Migrate(ctx context.Context) error
	PendingMigrations(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
