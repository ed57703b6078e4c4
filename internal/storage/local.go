package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalClient stores snapshots and assets on the local file system.
type LocalClient struct {
	baseDir string
}

// NewLocalClient creates a local storage client rooted at baseDir.
func NewLocalClient(baseDir string) (*LocalClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalClient{baseDir: baseDir}, nil
}

// Close is a no-op for local storage (implements the same interface as
// GCSClient).
func (l *LocalClient) Close() error {
	return nil
}

// StoreObject writes data under the base directory, creating parents.
func (l *LocalClient) StoreObject(ctx context.Context, objectPath string, data []byte) error {
	fullPath, err := l.resolve(objectPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", objectPath, err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	return nil
}

// GetObject reads an object from under the base directory.
func (l *LocalClient) GetObject(ctx context.Context, objectPath string) ([]byte, error) {
	fullPath, err := l.resolve(objectPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fullPath, err)
	}
	return data, nil
}

// ObjectExists checks for an object under the base directory.
func (l *LocalClient) ObjectExists(ctx context.Context, objectPath string) (bool, error) {
	fullPath, err := l.resolve(objectPath)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", fullPath, err)
	}
	return true, nil
}

// ListSnapshots lists snapshot index pages, newest first.
func (l *LocalClient) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	root := filepath.Join(l.baseDir, snapshotPrefix)

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries and continue
		}
		if info.Name() == "index.html" {
			relPath, _ := filepath.Rel(l.baseDir, path)
			paths = append(paths, filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to walk snapshots directory: %w", err)
	}

	sortNewestFirst(paths)
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	return paths, nil
}

// resolve joins an object path onto the base directory and rejects
// paths that escape it.
func (l *LocalClient) resolve(objectPath string) (string, error) {
	fullPath := filepath.Join(l.baseDir, filepath.FromSlash(objectPath))

	absBase, err := filepath.Abs(l.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", objectPath, err)
	}
	if absPath != absBase && !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("object path %s escapes storage root", objectPath)
	}
	return fullPath, nil
}
