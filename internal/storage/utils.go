package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// snapshotPrefix is the object-path prefix all exported snapshots live
// under; listing scans this prefix for index.html entries.
const snapshotPrefix = "snapshots/"

// assetPrefix is the object-path prefix for cached static assets.
const assetPrefix = "assets/"

// SnapshotFolderPath generates a consistent folder path for snapshots.
// Format: snapshots/YYYY/MM/DD/Snapshot-YYYY-MM-DD-HH-MM-SS
func SnapshotFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%s%04d/%02d/%02d/Snapshot-%04d-%02d-%02d-%02d-%02d-%02d",
		snapshotPrefix,
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// AssetPath returns the object path for a cached static asset.
func AssetPath(filename string) string {
	return assetPrefix + filename
}

// GetContentType determines the MIME content type based on file extension.
func GetContentType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "application/json"
	} else if strings.HasSuffix(filename, ".txt") {
		return "text/plain"
	} else if strings.HasSuffix(filename, ".html") {
		return "text/html"
	} else if strings.HasSuffix(filename, ".css") {
		return "text/css"
	} else if strings.HasSuffix(filename, ".js") {
		return "application/javascript"
	} else if strings.HasSuffix(filename, ".md") {
		return "text/markdown"
	} else if strings.HasSuffix(filename, ".png") {
		return "image/png"
	} else if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") {
		return "image/jpeg"
	} else if strings.HasSuffix(filename, ".gif") {
		return "image/gif"
	} else {
		return "application/octet-stream"
	}
}

// sortNewestFirst sorts snapshot paths in place, newest first. Paths
// embed their timestamps, so reverse-lexicographic order is newest
// first.
func sortNewestFirst(paths []string) {
	sort.Strings(paths)
	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}
}
