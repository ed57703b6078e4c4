package storage

import (
	"context"
)

// Client is the storage backend for exported dashboard snapshots and
// cached static assets. Implemented by LocalClient and GCSClient.
type Client interface {
	// Close closes the storage client.
	Close() error

	// StoreObject stores data at the given object path, creating any
	// intermediate directories the backend needs.
	StoreObject(ctx context.Context, objectPath string, data []byte) error

	// GetObject retrieves the object at the given path.
	GetObject(ctx context.Context, objectPath string) ([]byte, error)

	// ObjectExists reports whether an object exists at the given path.
	ObjectExists(ctx context.Context, objectPath string) (bool, error)

	// ListSnapshots lists stored snapshot index pages, newest first,
	// up to limit entries (0 means no limit).
	ListSnapshots(ctx context.Context, limit int) ([]string, error)
}
