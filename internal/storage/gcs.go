package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSClient stores snapshots and assets in a Google Cloud Storage
// bucket.
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client for the given bucket.
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
	}, nil
}

// Close closes the GCS client.
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreObject writes data to the bucket at the given object path.
func (g *GCSClient) StoreObject(ctx context.Context, objectPath string, data []byte) error {
	obj := g.client.Bucket(g.bucket).Object(objectPath)

	writer := obj.NewWriter(ctx)
	writer.ContentType = GetContentType(path.Base(objectPath))
	writer.CacheControl = "public, max-age=3600"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return nil
}

// GetObject retrieves an object from the bucket.
func (g *GCSClient) GetObject(ctx context.Context, objectPath string) ([]byte, error) {
	obj := g.client.Bucket(g.bucket).Object(objectPath)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for object %s: %w", objectPath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectPath, err)
	}
	return data, nil
}

// ObjectExists checks whether an object exists in the bucket.
func (g *GCSClient) ObjectExists(ctx context.Context, objectPath string) (bool, error) {
	obj := g.client.Bucket(g.bucket).Object(objectPath)

	_, err := obj.Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", objectPath, err)
	}
	return true, nil
}

// ListSnapshots lists snapshot index pages in the bucket, newest first.
func (g *GCSClient) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	bucket := g.client.Bucket(g.bucket)

	query := &storage.Query{
		Prefix: snapshotPrefix,
	}
	it := bucket.Objects(ctx, query)

	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/index.html") {
			paths = append(paths, attrs.Name)
		}
	}

	sortNewestFirst(paths)
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	return paths, nil
}
